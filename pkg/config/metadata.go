package config

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Metadata holds book metadata loaded from the metadata file. The
// nested tree is kept as parsed; a flattened view keyed by dotted
// paths backs placeholder and rule substitution.
type Metadata struct {
	settings map[string]any
	flat     map[string]string
}

// LoadMetadata reads a metadata file, JSON or YAML by extension, and
// injects the date and date-year keys.
func LoadMetadata(path string) (*Metadata, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read metadata %s: %w", path, err)
	}

	m := NewMetadata(v.AllSettings())
	m.InjectDates(time.Now())
	return m, nil
}

// NewMetadata wraps a settings tree. Keys are expected lowercase, as
// viper normalizes them.
func NewMetadata(settings map[string]any) *Metadata {
	if settings == nil {
		settings = make(map[string]any)
	}
	m := &Metadata{settings: settings}
	m.reflatten()
	return m
}

// InjectDates sets the date (YYYY-MM-DD) and date-year keys,
// overwriting any existing values.
func (m *Metadata) InjectDates(now time.Time) {
	m.settings["date"] = now.Format("2006-01-02")
	m.settings["date-year"] = now.Format("2006")
	m.reflatten()
}

// ApplyLanguage records a language override and promotes the
// language-suffixed title, subtitle and cover-image keys, so that
// title_fr overrides title when the language is fr.
func (m *Metadata) ApplyLanguage(lang string) {
	if lang == "" {
		return
	}
	m.settings["lang"] = lang
	for _, key := range []string{"title", "subtitle", "cover-image"} {
		if val, ok := m.settings[key+"_"+lang]; ok {
			m.settings[key] = val
		}
	}
	m.reflatten()
}

// Set stores a metadata value.
func (m *Metadata) Set(key string, value any) {
	m.settings[key] = value
	m.reflatten()
}

// Lookup returns the stringified value for a flattened key.
func (m *Metadata) Lookup(key string) (string, bool) {
	val, ok := m.flat[key]
	return val, ok
}

// Keys returns all flattened keys in sorted order.
func (m *Metadata) Keys() []string {
	keys := make([]string, 0, len(m.flat))
	for k := range m.flat {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Flat returns a copy of the flattened key-value view.
func (m *Metadata) Flat() map[string]string {
	flat := make(map[string]string, len(m.flat))
	for k, v := range m.flat {
		flat[k] = v
	}
	return flat
}

// Title returns the book title.
func (m *Metadata) Title() string { return m.getString("title") }

// Subtitle returns the book subtitle.
func (m *Metadata) Subtitle() string { return m.getString("subtitle") }

// Author returns the book author.
func (m *Metadata) Author() string { return m.getString("author") }

// Rights returns the rights statement.
func (m *Metadata) Rights() string { return m.getString("rights") }

// Publisher returns the publisher name.
func (m *Metadata) Publisher() string { return m.getString("publisher") }

// Identifier returns the book identifier (ISBN, URN), if any.
func (m *Metadata) Identifier() string { return m.getString("identifier") }

// CoverImage returns the cover image path, if any.
func (m *Metadata) CoverImage() string { return m.getString("cover-image") }

// BaseName returns the output basename from metadata, if any.
func (m *Metadata) BaseName() string { return m.getString("basename") }

// Language returns the book language, defaulting to en.
func (m *Metadata) Language() string {
	if lang := m.getString("lang"); lang != "" {
		return lang
	}
	return "en"
}

// CSS returns stylesheet paths from metadata. The value may be a
// single string or a list.
func (m *Metadata) CSS() []string {
	val, ok := m.settings["css"]
	if !ok {
		return nil
	}
	switch v := val.(type) {
	case string:
		if v == "" {
			return nil
		}
		return []string{v}
	case []any:
		paths := make([]string, 0, len(v))
		for _, item := range v {
			if s := stringify(item); s != "" {
				paths = append(paths, s)
			}
		}
		return paths
	case []string:
		return v
	default:
		return nil
	}
}

func (m *Metadata) getString(key string) string {
	if val, ok := m.settings[key]; ok {
		return stringify(val)
	}
	return ""
}

func (m *Metadata) reflatten() {
	m.flat = make(map[string]string, len(m.settings))
	flattenInto(m.flat, "", m.settings)
}

// flattenInto walks a settings tree, recording scalar leaves under
// dotted keys. Lists flatten to a comma-joined string.
func flattenInto(dst map[string]string, prefix string, value any) {
	switch val := value.(type) {
	case map[string]any:
		for k, v := range val {
			key := k
			if prefix != "" {
				key = prefix + "." + k
			}
			flattenInto(dst, key, v)
		}
	default:
		if prefix != "" {
			dst[prefix] = stringify(value)
		}
	}
}

func stringify(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case []any:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			parts = append(parts, stringify(item))
		}
		return strings.Join(parts, ", ")
	case []string:
		return strings.Join(v, ", ")
	default:
		return fmt.Sprintf("%v", v)
	}
}
