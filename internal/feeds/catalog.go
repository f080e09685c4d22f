// Package feeds はフィードソースの静的カタログを提供する。
//
// ソースとカテゴリは設定として宣言され、実行時に推論・登録されることはない。
// 組み込みの既定カタログをYAMLで保持し、FEEDS_FILEで差し替えられる。
package feeds

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalogYAML []byte

// Source はフィードソース1件の宣言を表す。
type Source struct {
	URL      string `yaml:"url"`
	Name     string `yaml:"source"`
	Category string `yaml:"-"`
	// Location は記事テキストからロケーションを解決できなかった場合に
	// フォールバックとして使うキーワードテーブルのキー。空なら無し。
	Location string `yaml:"location"`
}

// Category はカテゴリ1件とそのフィード群を表す。
type Category struct {
	Name  string   `yaml:"name"`
	Feeds []Source `yaml:"feeds"`
}

// Catalog はフィードカタログ全体を表す。定義順を保持する。
type Catalog struct {
	Categories []Category `yaml:"categories"`
}

// Load はYAMLファイルからカタログを読み込む。
// pathが空の場合は組み込みの既定カタログを返す。
func Load(path string) (*Catalog, error) {
	data := defaultCatalogYAML
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("フィードカタログの読み込みに失敗しました: %w", err)
		}
		data = b
	}

	return parse(data)
}

func parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("フィードカタログの解析に失敗しました: %w", err)
	}
	if len(c.Categories) == 0 {
		return nil, fmt.Errorf("フィードカタログにカテゴリが定義されていません")
	}
	for i, cat := range c.Categories {
		if cat.Name == "" {
			return nil, fmt.Errorf("カテゴリ %d に名前がありません", i)
		}
		for j, f := range cat.Feeds {
			if f.URL == "" || f.Name == "" {
				return nil, fmt.Errorf("カテゴリ %q のフィード %d にurl/sourceがありません", cat.Name, j)
			}
		}
	}
	return &c, nil
}

// Sources はカタログをカテゴリ付きソースのフラットな列として返す。
// カテゴリ定義順、カテゴリ内のフィード定義順を保持する。
func (c *Catalog) Sources() []Source {
	var out []Source
	for _, cat := range c.Categories {
		for _, f := range cat.Feeds {
			f.Category = cat.Name
			out = append(out, f)
		}
	}
	return out
}

// CategoryNames はカテゴリ名を定義順に返す。
func (c *Catalog) CategoryNames() []string {
	names := make([]string, len(c.Categories))
	for i, cat := range c.Categories {
		names[i] = cat.Name
	}
	return names
}
