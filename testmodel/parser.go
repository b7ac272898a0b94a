package testmodel

import (
	"fmt"

	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"

	o "github.com/questlabs/api-test-harness/framework/opt"
)

// The yaml package may parse a mapping as map[interface{}]interface{} in nested
// positions, which json.Marshal and ldvalue cannot consume; rewrite those with string
// keys, recursively.
func normalizeParsedYAMLForJSON(data interface{}) (interface{}, error) {
	switch data := data.(type) {
	case []interface{}:
		arrayOut := make([]interface{}, 0)
		for _, v := range data {
			v1, err := normalizeParsedYAMLForJSON(v)
			if err != nil {
				return nil, err
			}
			arrayOut = append(arrayOut, v1)
		}
		return arrayOut, nil
	case map[string]interface{}:
		mapOut := make(map[string]interface{})
		for k, v := range data {
			v1, err := normalizeParsedYAMLForJSON(v)
			if err != nil {
				return nil, err
			}
			mapOut[k] = v1
		}
		return mapOut, nil
	case map[interface{}]interface{}:
		mapOut := make(map[string]interface{})
		for k, v := range data {
			switch key := k.(type) {
			case string:
				v1, err := normalizeParsedYAMLForJSON(v)
				if err != nil {
					return nil, err
				}
				mapOut[key] = v1
			default:
				return nil, fmt.Errorf(
					"YAML data contained a map key of type %T; only string keys are allowed",
					k)
			}
		}
		return mapOut, nil
	default:
		return data, nil
	}
}

// valueFromYAML converts an already-parsed YAML value into an ldvalue.Value, preserving
// the structured-vs-raw-string distinction that the request builder relies on.
func valueFromYAML(raw interface{}) (ldvalue.Value, error) {
	if raw == nil {
		return ldvalue.Null(), nil
	}
	normalized, err := normalizeParsedYAMLForJSON(raw)
	if err != nil {
		return ldvalue.Null(), err
	}
	return ldvalue.CopyArbitraryValue(normalized), nil
}

// uidFromYAML converts a YAML uid field into an optional string. A missing or null uid
// is absent; numeric uids are sent in their decimal string form.
func uidFromYAML(raw interface{}) (o.Maybe[string], error) {
	v, err := valueFromYAML(raw)
	if err != nil {
		return o.None[string](), err
	}
	if v.IsNull() {
		return o.None[string](), nil
	}
	if v.Type() == ldvalue.StringType {
		return o.Some(v.StringValue()), nil
	}
	return o.Some(v.JSONString()), nil
}
