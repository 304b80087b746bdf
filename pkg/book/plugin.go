package book

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"

	"github.com/yaklabco/bookpress/internal/logging"
)

// pluginFuncName is the function every transformation plugin exports.
const pluginFuncName = "Transforms"

// LoadPlugins evaluates every .go file in dir and collects the
// transformation rules each declares via Transforms(), which returns
// []map[string]string with name, search and replace keys. Rules keep
// file order, files keep directory order.
//
// A missing or empty dir yields no rules. A plugin that does not
// interpret, does not export Transforms, or declares a rule that will
// not compile fails the load with the plugin path in the error.
func LoadPlugins(ctx context.Context, dir string) ([]*Transformation, error) {
	trimmed := strings.TrimSpace(dir)
	if trimmed == "" {
		return nil, nil
	}
	entries, err := os.ReadDir(trimmed)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("plugin: read %s: %w", trimmed, err)
	}

	logger := logging.FromContext(ctx)
	var rules []*Transformation
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".go" {
			continue
		}
		path := filepath.Join(trimmed, entry.Name())
		fileRules, err := loadPluginFile(path)
		if err != nil {
			return nil, err
		}
		logger.Debug("plugin loaded",
			logging.FieldPlugin, path,
			logging.FieldCount, len(fileRules))
		rules = append(rules, fileRules...)
	}
	return rules, nil
}

func loadPluginFile(path string) ([]*Transformation, error) {
	code, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("plugin: read %s: %w", path, err)
	}
	if len(strings.TrimSpace(string(code))) == 0 {
		return nil, fmt.Errorf("plugin: %s is empty", path)
	}

	i := interp.New(interp.Options{})
	if err := i.Use(stdlib.Symbols); err != nil {
		return nil, fmt.Errorf("plugin: %s: %w", path, err)
	}
	if _, err := i.EvalPath(path); err != nil {
		return nil, fmt.Errorf("plugin: interpret %s: %w", path, err)
	}
	fnValue, err := i.Eval(pluginFuncName)
	if err != nil {
		return nil, fmt.Errorf("plugin: %s must define %s() []map[string]string: %w", path, pluginFuncName, err)
	}
	raw, err := invokeTransformsFunc(fnValue)
	if err != nil {
		return nil, fmt.Errorf("plugin: %s: %w", path, err)
	}

	rules := make([]*Transformation, 0, len(raw))
	for idx, entry := range raw {
		search, ok := entry["search"]
		if !ok || search == "" {
			return nil, fmt.Errorf("plugin: %s rule %d: missing search pattern", path, idx+1)
		}
		t, err := NewTransformation(entry["name"], search, entry["replace"])
		if err != nil {
			return nil, fmt.Errorf("plugin: %s rule %d: %w", path, idx+1, err)
		}
		rules = append(rules, t)
	}
	return rules, nil
}

func invokeTransformsFunc(value reflect.Value) ([]map[string]string, error) {
	if !value.IsValid() {
		return nil, fmt.Errorf("missing %s function", pluginFuncName)
	}
	if value.Kind() != reflect.Func {
		return nil, fmt.Errorf("%s is not a function", pluginFuncName)
	}
	results := value.Call(nil)
	if len(results) == 0 || len(results) > 2 {
		return nil, fmt.Errorf("%s must return []map[string]string[, error]", pluginFuncName)
	}
	if len(results) == 2 {
		if !results[1].IsNil() {
			if e, ok := results[1].Interface().(error); ok && e != nil {
				return nil, e
			}
			return nil, fmt.Errorf("%s returned a non-error second value", pluginFuncName)
		}
	}

	rulesVal := results[0]
	if rules, ok := rulesVal.Interface().([]map[string]string); ok {
		return rules, nil
	}
	if rulesVal.Kind() == reflect.Slice {
		rules := make([]map[string]string, rulesVal.Len())
		for i := 0; i < rulesVal.Len(); i++ {
			m, ok := rulesVal.Index(i).Interface().(map[string]string)
			if !ok {
				return nil, fmt.Errorf("%s[%d] is not map[string]string", pluginFuncName, i)
			}
			rules[i] = m
		}
		return rules, nil
	}
	return nil, fmt.Errorf("%s must return []map[string]string", pluginFuncName)
}
