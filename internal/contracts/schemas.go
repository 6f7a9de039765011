package contracts

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Registry хранит скомпилированные схемы событий по ключу "<EventType>/<version>"
type Registry struct {
	schemas map[string]*jsonschema.Schema
}

// NewRegistry компилирует все *.json под root.
// Путь "events/property-upsert/v1.json" регистрируется как "PropertyUpsertEvent/1.0.0".
func NewRegistry(fsys fs.FS, root string) (*Registry, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft7
	compiler.AssertFormat = true

	var paths []string
	err := fs.WalkDir(fsys, root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(p, ".json") {
			return nil
		}
		file, err := fsys.Open(p)
		if err != nil {
			return fmt.Errorf("open schema %s: %w", p, err)
		}
		defer file.Close()

		// все ресурсы добавляются до компиляции, чтобы работали $ref между схемами
		if err := compiler.AddResource(p, file); err != nil {
			return fmt.Errorf("add schema resource %s: %w", p, err)
		}
		paths = append(paths, p)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk schemas: %w", err)
	}

	r := &Registry{schemas: make(map[string]*jsonschema.Schema, len(paths))}
	for _, p := range paths {
		key, ok := keyFromPath(root, p)
		if !ok {
			return nil, fmt.Errorf("schema path %s does not follow <event-name>/v<major>.json", p)
		}
		schema, err := compiler.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("compile schema %s: %w", p, err)
		}
		r.schemas[key] = schema
	}
	return r, nil
}

// keyFromPath: "events/property-upsert/v1.json" -> "PropertyUpsertEvent/1.0.0"
func keyFromPath(root, p string) (string, bool) {
	rel := strings.TrimPrefix(strings.TrimSuffix(p, ".json"), root+"/")
	dir, file := path.Split(rel)
	dir = strings.TrimSuffix(dir, "/")
	if dir == "" || strings.Contains(dir, "/") || !strings.HasPrefix(file, "v") || len(file) < 2 {
		return "", false
	}

	caser := cases.Title(language.English)
	var name strings.Builder
	for _, part := range strings.Split(dir, "-") {
		name.WriteString(caser.String(part))
	}
	name.WriteString("Event")

	return fmt.Sprintf("%s/%s.0.0", name.String(), strings.TrimPrefix(file, "v")), true
}

// Has сообщает, есть ли схема для события
func (r *Registry) Has(eventType, eventVersion string) bool {
	_, ok := r.schemas[eventType+"/"+eventVersion]
	return ok
}

// ValidateEvent проверяет тело сообщения по схеме его типа и версии
func (r *Registry) ValidateEvent(eventType, eventVersion string, body []byte) error {
	schema, ok := r.schemas[eventType+"/"+eventVersion]
	if !ok {
		return fmt.Errorf("schema for event '%s' version '%s' not found", eventType, eventVersion)
	}

	var v interface{}
	if err := json.Unmarshal(body, &v); err != nil {
		return fmt.Errorf("message body is not a valid JSON: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("JSON schema validation failed: %w", err)
	}
	return nil
}
