// Package swaggerkit builds the OpenAPI document from the routes modules describe while mounting
package swaggerkit

import (
	"encoding/json"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"time"
)

// SpecMutator lets a module tweak the document before it is served
type SpecMutator func(map[string]any)

// Op describes one endpoint, Path is relative to the server url
type Op struct {
	Method  string
	Path    string
	Summary string
	Tag     string
	// Body is a zero value of the request DTO, nil when the endpoint takes none
	Body any
	// Result is a zero value of the envelope data payload
	Result  any
	Secured bool
}

// Doc is an OpenAPI 3.0 document assembled at runtime
// it satisfies swag.Swagger so http-swagger can serve it
type Doc struct {
	mu       sync.RWMutex
	title    string
	version  string
	server   string
	ops      []Op
	mutators []SpecMutator
}

// NewDoc returns an empty document served from server, e.g. /api/v1
func NewDoc(title, version, server string) *Doc {
	return &Doc{title: title, version: version, server: server}
}

// Default collects the routes of the running API
var Default = NewDoc("trendlens API", "v1", "/api/v1")

// Describe adds ops to the default document
func Describe(ops ...Op) { Default.Add(ops...) }

// Add appends ops, a later op for the same method and path wins
func (d *Doc) Add(ops ...Op) {
	d.mu.Lock()
	d.ops = append(d.ops, ops...)
	d.mu.Unlock()
}

// Mutate registers a mutator run on every read
func (d *Doc) Mutate(m SpecMutator) {
	if m == nil {
		return
	}
	d.mu.Lock()
	d.mutators = append(d.mutators, m)
	d.mu.Unlock()
}

// Len reports how many ops were described
func (d *Doc) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.ops)
}

// ReadDoc renders the document as JSON
func (d *Doc) ReadDoc() string {
	spec := d.Spec()
	b, err := json.Marshal(spec)
	if err != nil {
		return `{"openapi":"3.0.3","info":{"title":"API","version":"0.0.0"},"paths":{}}`
	}
	return string(b)
}

// Spec builds the document as a generic map
func (d *Doc) Spec() map[string]any {
	d.mu.RLock()
	ops := append([]Op(nil), d.ops...)
	mutators := append([]SpecMutator(nil), d.mutators...)
	d.mu.RUnlock()

	schemas := map[string]any{}
	paths := map[string]any{}
	secured := false
	for _, op := range ops {
		node, ok := paths[op.Path].(map[string]any)
		if !ok {
			node = map[string]any{}
			paths[op.Path] = node
		}
		entry := map[string]any{
			"summary": op.Summary,
			"responses": map[string]any{
				"200": map[string]any{
					"description": "OK",
					"content":     jsonContent(envelopeSchema(op.Result, schemas)),
				},
			},
		}
		if op.Tag != "" {
			entry["tags"] = []any{op.Tag}
		}
		if op.Body != nil {
			entry["requestBody"] = map[string]any{
				"required": false,
				"content":  jsonContent(schemaOf(reflect.TypeOf(op.Body), schemas)),
			}
		}
		if op.Secured {
			secured = true
			entry["security"] = []any{map[string]any{"apiKey": []any{}}}
		}
		node[strings.ToLower(op.Method)] = entry
	}

	comps := map[string]any{"schemas": schemas}
	if secured {
		comps["securitySchemes"] = map[string]any{
			"apiKey": map[string]any{"type": "apiKey", "in": "header", "name": "X-API-Key"},
		}
	}
	spec := map[string]any{
		"openapi":    "3.0.3",
		"info":       map[string]any{"title": d.title, "version": d.version},
		"servers":    []any{map[string]any{"url": d.server}},
		"paths":      paths,
		"components": comps,
	}

	ensureErrorResponse(schemas)
	addDefaultResponse(spec, http.StatusBadRequest, map[string]any{
		"status_code": 400,
		"status":      "Bad Request",
		"code":        6,
		"error":       "granularity must be one of [theme subtheme]",
		"field":       "granularity",
		"request_id":  "trendlens/abc-000001",
	})
	addDefaultResponse(spec, http.StatusInternalServerError, map[string]any{
		"status_code": 500,
		"status":      "Internal Server Error",
		"code":        1,
		"error":       "panic recovered",
		"request_id":  "trendlens/abc-000001",
	})

	for _, m := range mutators {
		m(spec)
	}
	return spec
}

func jsonContent(schema map[string]any) map[string]any {
	return map[string]any{"application/json": map[string]any{"schema": schema}}
}

func envelopeSchema(result any, schemas map[string]any) map[string]any {
	props := map[string]any{
		"status_code": map[string]any{"type": "integer", "format": "int32"},
		"status":      map[string]any{"type": "string"},
		"request_id":  map[string]any{"type": "string"},
	}
	if result != nil {
		props["data"] = schemaOf(reflect.TypeOf(result), schemas)
	}
	return map[string]any{"type": "object", "properties": props}
}

// ensureErrorResponse mirrors the runtime error envelope
func ensureErrorResponse(schemas map[string]any) {
	if _, ok := schemas["ErrorResponse"]; ok {
		return
	}
	schemas["ErrorResponse"] = map[string]any{
		"type":        "object",
		"description": "Standard error response",
		"properties": map[string]any{
			"status_code": map[string]any{"type": "integer", "format": "int32"},
			"status":      map[string]any{"type": "string"},
			"code":        map[string]any{"type": "integer", "format": "int32"},
			"error":       map[string]any{"type": "string"},
			"field":       map[string]any{"type": "string"},
			"request_id":  map[string]any{"type": "string"},
		},
		"required": []any{"status_code", "status"},
	}
}

// addDefaultResponse injects an error response on every operation lacking one for status
func addDefaultResponse(spec map[string]any, status int, example map[string]any) {
	paths, ok := spec["paths"].(map[string]any)
	if !ok {
		return
	}
	code := strconv.Itoa(status)
	resp := map[string]any{
		"description": http.StatusText(status),
		"content": map[string]any{
			"application/json": map[string]any{
				"schema":  map[string]any{"$ref": "#/components/schemas/ErrorResponse"},
				"example": example,
			},
		},
	}
	for _, p := range paths {
		node, ok := p.(map[string]any)
		if !ok {
			continue
		}
		for _, opAny := range node {
			op, ok := opAny.(map[string]any)
			if !ok {
				continue
			}
			responses, ok := op["responses"].(map[string]any)
			if !ok {
				responses = map[string]any{}
				op["responses"] = responses
			}
			if _, exists := responses[code]; !exists {
				responses[code] = resp
			}
		}
	}
}

var timeType = reflect.TypeOf(time.Time{})

// schemaOf reflects t into a JSON schema, named structs land in schemas and are referenced
func schemaOf(t reflect.Type, schemas map[string]any) map[string]any {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == timeType {
		return map[string]any{"type": "string", "format": "date-time"}
	}
	switch t.Kind() {
	case reflect.Struct:
		if t.Name() == "" {
			return structSchema(t, schemas)
		}
		name := t.Name()
		if _, ok := schemas[name]; !ok {
			schemas[name] = map[string]any{"type": "object"}
			schemas[name] = structSchema(t, schemas)
		}
		return map[string]any{"$ref": "#/components/schemas/" + name}
	case reflect.Slice, reflect.Array:
		if t.Elem().Kind() == reflect.Uint8 {
			return map[string]any{"type": "string", "format": "byte"}
		}
		return map[string]any{"type": "array", "items": schemaOf(t.Elem(), schemas)}
	case reflect.Map:
		return map[string]any{"type": "object", "additionalProperties": schemaOf(t.Elem(), schemas)}
	case reflect.String:
		return map[string]any{"type": "string"}
	case reflect.Bool:
		return map[string]any{"type": "boolean"}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return map[string]any{"type": "integer"}
	case reflect.Float32, reflect.Float64:
		return map[string]any{"type": "number"}
	default:
		return map[string]any{}
	}
}

func structSchema(t reflect.Type, schemas map[string]any) map[string]any {
	props := map[string]any{}
	var required []any
	for i := range t.NumField() {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name, skip := jsonName(f)
		if skip {
			continue
		}
		if f.Anonymous && name == "" {
			inner := structSchema(f.Type, schemas)
			if p, ok := inner["properties"].(map[string]any); ok {
				for k, v := range p {
					props[k] = v
				}
			}
			continue
		}
		if name == "" {
			name = f.Name
		}
		s := schemaOf(f.Type, schemas)
		rules := f.Tag.Get("validate")
		for _, rule := range strings.Split(rules, ",") {
			switch {
			case rule == "required":
				required = append(required, name)
			case strings.HasPrefix(rule, "oneof="):
				var enum []any
				for _, v := range strings.Fields(strings.TrimPrefix(rule, "oneof=")) {
					enum = append(enum, v)
				}
				s = withKey(s, "enum", enum)
			}
		}
		if ex := f.Tag.Get("example"); ex != "" {
			s = withKey(s, "example", ex)
		}
		props[name] = s
	}
	out := map[string]any{"type": "object", "properties": props}
	if len(required) > 0 {
		out["required"] = required
	}
	return out
}

// withKey copies s so shared refs are never mutated
func withKey(s map[string]any, k string, v any) map[string]any {
	out := make(map[string]any, len(s)+1)
	for kk, vv := range s {
		out[kk] = vv
	}
	out[k] = v
	return out
}

func jsonName(f reflect.StructField) (name string, skip bool) {
	tag := f.Tag.Get("json")
	if tag == "-" {
		return "", true
	}
	name, _, _ = strings.Cut(tag, ",")
	return name, false
}
