package similarity

import "testing"

func TestNormalize_DropsStopwordsAndShortTokens(t *testing.T) {
	tokens := Normalize("The US and China at a crossroads")

	want := []string{"crossroads", "china"}
	for _, w := range want {
		if _, ok := tokens[w]; !ok {
			t.Errorf("expected token %q in %v", w, tokens)
		}
	}

	// "the", "and", "at", "a" はストップワード、"us"は長さ2以下で除外される。
	for _, w := range []string{"the", "and", "at", "a", "us"} {
		if _, ok := tokens[w]; ok {
			t.Errorf("token %q should have been dropped", w)
		}
	}
}

func TestNormalize_StripsPunctuation(t *testing.T) {
	tokens := Normalize("Russia's strikes: Kyiv power-grid hit!")

	// 約物は除去され、"russias"と"powergrid"のように連結される。
	for _, w := range []string{"russias", "strikes", "kyiv", "powergrid", "hit"} {
		if _, ok := tokens[w]; !ok {
			t.Errorf("expected token %q in %v", w, tokens)
		}
	}
}

func TestNormalize_KeepsNonASCIILetters(t *testing.T) {
	tokens := Normalize("Müller erhält Militärhilfe für die Ukraine")

	// アクセント付き文字はそのまま保持される。
	for _, w := range []string{"müller", "erhält", "militärhilfe", "für", "die", "ukraine"} {
		if _, ok := tokens[w]; !ok {
			t.Errorf("expected token %q in %v", w, tokens)
		}
	}
}

func TestScore_CJKIdenticalTitles(t *testing.T) {
	got := Score("联合国安理会通过新决议", "联合国安理会通过新决议")
	if got != 1.0 {
		t.Errorf("Score = %v, want 1.0", got)
	}
}

func TestScore_SimilarTitles(t *testing.T) {
	got := Score("Russia strikes Kyiv power grid", "Russian strikes hit Kyiv power grid")
	if got <= 0.4 {
		t.Errorf("Score = %v, want > 0.4", got)
	}
}

func TestScore_UnrelatedTitles(t *testing.T) {
	got := Score("Markets rally on rate cut", "Tech layoffs surge in Q3")
	if got != 0 {
		t.Errorf("Score = %v, want 0", got)
	}
}

func TestScore_IdenticalTitles(t *testing.T) {
	got := Score("Ceasefire talks resume in Cairo", "Ceasefire talks resume in Cairo")
	if got != 1.0 {
		t.Errorf("Score = %v, want 1.0", got)
	}
}

func TestScore_EmptyTokenSetIsZero(t *testing.T) {
	cases := []struct {
		name string
		a, b string
	}{
		{"both empty", "", ""},
		{"one empty", "Russia strikes Kyiv", ""},
		{"only stopwords", "the a an", "Russia strikes Kyiv"},
		{"only short tokens", "a b c d", "Russia strikes Kyiv"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Score(tc.a, tc.b); got != 0 {
				t.Errorf("Score(%q, %q) = %v, want 0", tc.a, tc.b, got)
			}
		})
	}
}

func TestScore_Symmetric(t *testing.T) {
	a := "Iran nuclear talks stall again"
	b := "Nuclear talks with Iran stall"
	if Score(a, b) != Score(b, a) {
		t.Error("Score must be symmetric")
	}
}
