package querybuilder

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
)

// columnPlan lists the db-tagged exported fields of one struct type.
type columnPlan struct {
	names   []string
	indexes []int
}

var plans sync.Map // reflect.Type -> columnPlan

// Columns returns the db column names of model in field order. model may be
// a struct or a pointer to one.
func Columns(model any) ([]string, error) {
	_, plan, err := resolveModel(model)
	if err != nil {
		return nil, err
	}
	return append([]string(nil), plan.names...), nil
}

// InsertModel renders a single-row insert from the db tags of model.
func InsertModel(table string, model any, suffix string) (string, []any, error) {
	value, plan, err := resolveModel(model)
	if err != nil {
		return "", nil, err
	}

	values := make([]any, len(plan.indexes))
	for i, idx := range plan.indexes {
		values[i] = value.Field(idx).Interface()
	}
	return InsertInto(table).Columns(plan.names...).Values(values...).Suffix(suffix).ToSQL()
}

func resolveModel(model any) (reflect.Value, columnPlan, error) {
	value := reflect.ValueOf(model)
	for value.Kind() == reflect.Pointer {
		if value.IsNil() {
			return reflect.Value{}, columnPlan{}, fmt.Errorf("model cannot be nil")
		}
		value = value.Elem()
	}
	if value.Kind() != reflect.Struct {
		return reflect.Value{}, columnPlan{}, fmt.Errorf("model must be a struct, got %s", value.Kind())
	}

	plan := planFor(value.Type())
	if len(plan.names) == 0 {
		return reflect.Value{}, columnPlan{}, fmt.Errorf("model %s has no db columns", value.Type())
	}
	return value, plan, nil
}

func planFor(typ reflect.Type) columnPlan {
	if cached, ok := plans.Load(typ); ok {
		return cached.(columnPlan)
	}

	var plan columnPlan
	for i := range typ.NumField() {
		field := typ.Field(i)
		if !field.IsExported() {
			continue
		}
		name, _, _ := strings.Cut(field.Tag.Get("db"), ",")
		name = strings.TrimSpace(name)
		if name == "" || name == "-" {
			continue
		}
		plan.names = append(plan.names, name)
		plan.indexes = append(plan.indexes, i)
	}

	actual, _ := plans.LoadOrStore(typ, plan)
	return actual.(columnPlan)
}
