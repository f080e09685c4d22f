package geo

import "github.com/hitoshi/situmon/internal/model"

// Keyword はロケーションキーワードと対応する地理情報の組を表す。
type Keyword struct {
	Key string
	Tag model.GeoTag
}

// keywords はロケーション抽出用の静的テーブル。
// 定義順がそのままマッチングの優先順位になるため、
// mapではなくスライスで保持する。順序を変更してはならない。
// 複数のキーワードが同一の正規名を指す場合がある（別名・首都など）。
var keywords = []Keyword{
	{"ukraine", model.GeoTag{Name: "Ukraine", Lat: 48.3794, Lng: 31.1656}},
	{"russia", model.GeoTag{Name: "Russia", Lat: 61.5240, Lng: 105.3188}},
	{"china", model.GeoTag{Name: "China", Lat: 35.8617, Lng: 104.1954}},
	{"taiwan", model.GeoTag{Name: "Taiwan", Lat: 23.6978, Lng: 120.9605}},
	{"israel", model.GeoTag{Name: "Israel", Lat: 31.0461, Lng: 34.8516}},
	{"gaza", model.GeoTag{Name: "Gaza", Lat: 31.3547, Lng: 34.3088}},
	{"palestine", model.GeoTag{Name: "Palestine", Lat: 31.9522, Lng: 35.2332}},
	{"iran", model.GeoTag{Name: "Iran", Lat: 32.4279, Lng: 53.6880}},
	{"syria", model.GeoTag{Name: "Syria", Lat: 34.8021, Lng: 38.9968}},
	{"yemen", model.GeoTag{Name: "Yemen", Lat: 15.5527, Lng: 48.5164}},
	{"north korea", model.GeoTag{Name: "North Korea", Lat: 40.3399, Lng: 127.5101}},
	{"south korea", model.GeoTag{Name: "South Korea", Lat: 35.9078, Lng: 127.7669}},
	{"japan", model.GeoTag{Name: "Japan", Lat: 36.2048, Lng: 138.2529}},
	{"india", model.GeoTag{Name: "India", Lat: 20.5937, Lng: 78.9629}},
	{"pakistan", model.GeoTag{Name: "Pakistan", Lat: 30.3753, Lng: 69.3451}},
	{"afghanistan", model.GeoTag{Name: "Afghanistan", Lat: 33.9391, Lng: 67.7100}},
	{"iraq", model.GeoTag{Name: "Iraq", Lat: 33.2232, Lng: 43.6793}},
	{"saudi arabia", model.GeoTag{Name: "Saudi Arabia", Lat: 23.8859, Lng: 45.0792}},
	{"turkey", model.GeoTag{Name: "Turkey", Lat: 38.9637, Lng: 35.2433}},
	{"egypt", model.GeoTag{Name: "Egypt", Lat: 26.8206, Lng: 30.8025}},
	{"libya", model.GeoTag{Name: "Libya", Lat: 26.3351, Lng: 17.2283}},
	{"sudan", model.GeoTag{Name: "Sudan", Lat: 12.8628, Lng: 30.2176}},
	{"ethiopia", model.GeoTag{Name: "Ethiopia", Lat: 9.1450, Lng: 40.4897}},
	{"somalia", model.GeoTag{Name: "Somalia", Lat: 5.1521, Lng: 46.1996}},
	{"nigeria", model.GeoTag{Name: "Nigeria", Lat: 9.0820, Lng: 8.6753}},
	{"south africa", model.GeoTag{Name: "South Africa", Lat: -30.5595, Lng: 22.9375}},
	{"venezuela", model.GeoTag{Name: "Venezuela", Lat: 6.4238, Lng: -66.5897}},
	{"brazil", model.GeoTag{Name: "Brazil", Lat: -14.2350, Lng: -51.9253}},
	{"mexico", model.GeoTag{Name: "Mexico", Lat: 23.6345, Lng: -102.5528}},
	{"canada", model.GeoTag{Name: "Canada", Lat: 56.1304, Lng: -106.3468}},
	{"united states", model.GeoTag{Name: "United States", Lat: 37.0902, Lng: -95.7129}},
	{"usa", model.GeoTag{Name: "United States", Lat: 37.0902, Lng: -95.7129}},
	{"america", model.GeoTag{Name: "United States", Lat: 37.0902, Lng: -95.7129}},
	{"trump", model.GeoTag{Name: "United States", Lat: 37.0902, Lng: -95.7129}},
	{"biden", model.GeoTag{Name: "United States", Lat: 37.0902, Lng: -95.7129}},
	{"washington", model.GeoTag{Name: "United States", Lat: 38.9072, Lng: -77.0369}},
	{"pentagon", model.GeoTag{Name: "United States", Lat: 38.8719, Lng: -77.0563}},
	{"nato", model.GeoTag{Name: "Europe", Lat: 50.8503, Lng: 4.3517}},
	{"european union", model.GeoTag{Name: "Europe", Lat: 50.8503, Lng: 4.3517}},
	{"eu", model.GeoTag{Name: "Europe", Lat: 50.8503, Lng: 4.3517}},
	{"brussels", model.GeoTag{Name: "Belgium", Lat: 50.8503, Lng: 4.3517}},
	{"london", model.GeoTag{Name: "United Kingdom", Lat: 51.5074, Lng: -0.1278}},
	{"uk", model.GeoTag{Name: "United Kingdom", Lat: 55.3781, Lng: -3.4360}},
	{"britain", model.GeoTag{Name: "United Kingdom", Lat: 55.3781, Lng: -3.4360}},
	{"germany", model.GeoTag{Name: "Germany", Lat: 51.1657, Lng: 10.4515}},
	{"france", model.GeoTag{Name: "France", Lat: 46.2276, Lng: 2.2137}},
	{"poland", model.GeoTag{Name: "Poland", Lat: 51.9194, Lng: 19.1451}},
	{"crimea", model.GeoTag{Name: "Crimea", Lat: 44.9521, Lng: 34.1024}},
	{"donbas", model.GeoTag{Name: "Donbas", Lat: 48.0159, Lng: 37.8028}},
	{"kyiv", model.GeoTag{Name: "Ukraine", Lat: 50.4501, Lng: 30.5234}},
	{"kiev", model.GeoTag{Name: "Ukraine", Lat: 50.4501, Lng: 30.5234}},
	{"moscow", model.GeoTag{Name: "Russia", Lat: 55.7558, Lng: 37.6173}},
	{"beijing", model.GeoTag{Name: "China", Lat: 39.9042, Lng: 116.4074}},
	{"taipei", model.GeoTag{Name: "Taiwan", Lat: 25.0330, Lng: 121.5654}},
	{"tehran", model.GeoTag{Name: "Iran", Lat: 35.6892, Lng: 51.3890}},
	{"pyongyang", model.GeoTag{Name: "North Korea", Lat: 39.0392, Lng: 125.7625}},
	{"south china sea", model.GeoTag{Name: "South China Sea", Lat: 12.0, Lng: 114.0}},
	{"red sea", model.GeoTag{Name: "Red Sea", Lat: 20.0, Lng: 38.0}},
	{"strait of hormuz", model.GeoTag{Name: "Strait of Hormuz", Lat: 26.5, Lng: 56.5}},
	{"arctic", model.GeoTag{Name: "Arctic", Lat: 90.0, Lng: 0.0}},
	{"houthi", model.GeoTag{Name: "Yemen", Lat: 15.5527, Lng: 48.5164}},
	{"hezbollah", model.GeoTag{Name: "Lebanon", Lat: 33.8547, Lng: 35.8623}},
	{"lebanon", model.GeoTag{Name: "Lebanon", Lat: 33.8547, Lng: 35.8623}},
	{"myanmar", model.GeoTag{Name: "Myanmar", Lat: 21.9162, Lng: 95.9560}},
	{"philippines", model.GeoTag{Name: "Philippines", Lat: 12.8797, Lng: 121.7740}},
	{"indonesia", model.GeoTag{Name: "Indonesia", Lat: -0.7893, Lng: 113.9213}},
	{"australia", model.GeoTag{Name: "Australia", Lat: -25.2744, Lng: 133.7751}},
	{"aukus", model.GeoTag{Name: "Australia", Lat: -25.2744, Lng: 133.7751}},
}

// Keywords はキーワードテーブルのコピーを返す。テスト・診断用。
func Keywords() []Keyword {
	out := make([]Keyword, len(keywords))
	copy(out, keywords)
	return out
}
