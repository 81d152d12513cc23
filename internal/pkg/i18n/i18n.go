package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sync"

	"gopkg.in/yaml.v3"
)

type Translations map[string]string

//go:embed locales/*/messages.yaml
var embedded embed.FS

const fallbackLocale = "es"

var (
	locales = make(map[string]Translations)
	mu      sync.RWMutex
	once    sync.Once
)

// LoadTranslations reads <locale>/messages.yaml for every locale directory
// under root in fsys, replacing whatever was loaded before for that locale.
func LoadTranslations(fsys fs.FS, root string) error {
	mu.Lock()
	defer mu.Unlock()

	entries, err := fs.ReadDir(fsys, root)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		locale := entry.Name()
		filePath := path.Join(root, locale, "messages.yaml")

		data, err := fs.ReadFile(fsys, filePath)
		if err != nil {
			continue
		}

		var catalog struct {
			Messages Translations `yaml:"MESSAGES"`
		}
		if err := yaml.Unmarshal(data, &catalog); err != nil {
			return fmt.Errorf("failed to parse %s: %w", filePath, err)
		}

		locales[locale] = catalog.Messages
	}

	return nil
}

func loadEmbedded() {
	once.Do(func() {
		if err := LoadTranslations(embedded, "locales"); err != nil {
			panic(err)
		}
	})
}

func Translate(locale, key string) string {
	loadEmbedded()

	mu.RLock()
	defer mu.RUnlock()

	if trans, ok := locales[locale]; ok {
		if val, ok := trans[key]; ok {
			return val
		}
	}

	if locale != fallbackLocale {
		if trans, ok := locales[fallbackLocale]; ok {
			if val, ok := trans[key]; ok {
				return val
			}
		}
	}

	return key
}

func Translatef(locale, key string, args ...interface{}) string {
	return fmt.Sprintf(Translate(locale, key), args...)
}
