package config

// Category maps a moderation category to its display name and the lexicon
// files that back it. File names are resolved relative to the lexicon
// directory unless absolute.
type Category struct {
	// ID is the stable identifier reported in results (e.g. "ad").
	ID string `koanf:"id" yaml:"id"`

	// Name is the display name used in the summary message.
	// The ID is used when Name is empty.
	Name string `koanf:"name" yaml:"name,omitempty"`

	// Files lists the lexicon files whose words are merged into this category.
	Files []string `koanf:"files" yaml:"files"`
}

// DisplayName returns Name, falling back to ID.
func (c Category) DisplayName() string {
	if c.Name != "" {
		return c.Name
	}
	return c.ID
}

// DefaultCategories returns the category table matching the file layout of
// the konsheng/Sensitive-lexicon "Vocabulary" directory.
// A fresh slice is returned on every call.
func DefaultCategories() []Category {
	return []Category{
		{ID: "ad", Name: "广告垃圾", Files: []string{"广告类型.txt"}},
		{ID: "porn", Name: "色情垃圾", Files: []string{"色情类型.txt", "色情词库.txt"}},
		{ID: "political", Name: "违禁涉政", Files: []string{"政治类型.txt", "反动词库.txt"}},
		{ID: "abuse", Name: "谩骂灌水", Files: []string{"补充词库.txt", "其他词库.txt"}},
	}
}

// LexiconFiles returns every file name referenced by categories,
// de-duplicated, in table order.
func LexiconFiles(categories []Category) []string {
	seen := make(map[string]bool)
	files := make([]string, 0)
	for _, c := range categories {
		for _, f := range c.Files {
			if seen[f] {
				continue
			}
			seen[f] = true
			files = append(files, f)
		}
	}
	return files
}

// DisplayNames returns a category ID to display name lookup table.
func DisplayNames(categories []Category) map[string]string {
	names := make(map[string]string, len(categories))
	for _, c := range categories {
		names[c.ID] = c.DisplayName()
	}
	return names
}
