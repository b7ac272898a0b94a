package testmodel

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	yaml "gopkg.in/yaml.v3"

	o "github.com/questlabs/api-test-harness/framework/opt"
)

// DefaultExpectedStatus is asserted by any canonical-shape case that does not name an
// expected status explicitly.
const DefaultExpectedStatus = 200

// LoadSuiteFile reads and parses a suite configuration document. Any error here is a
// configuration error: fatal, reported before any case runs.
func LoadSuiteFile(path string) (*Suite, error) {
	data, err := os.ReadFile(path) //nolint:gosec // yes, we know the file path is a variable
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}
	suite, err := ParseSuite(data)
	if err != nil {
		return nil, fmt.Errorf("error in configuration file %q: %w", path, err)
	}
	return suite, nil
}

// ParseSuite parses a configuration document in either supported shape. The document is
// decoded through yaml.Node so that the declaration order of categories and cases is
// preserved; that order is the execution order.
func ParseSuite(data []byte) (*Suite, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("malformed document: %w", err)
	}
	if len(doc.Content) == 0 {
		return nil, errors.New("document is empty")
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, errors.New("document must be a mapping")
	}
	if mappingValue(root, "endpoints") != nil {
		return parseEndpointsDocument(root)
	}
	return parseCasesDocument(root)
}

func mappingValue(node *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return node.Content[i+1]
		}
	}
	return nil
}

func eachMappingEntry(node *yaml.Node, fn func(key string, value *yaml.Node) error) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("expected a mapping at line %d", node.Line)
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if err := fn(node.Content[i].Value, node.Content[i+1]); err != nil {
			return err
		}
	}
	return nil
}

func parseBaseURL(root *yaml.Node) (string, error) {
	n := mappingValue(root, "base_url")
	if n == nil || n.Value == "" {
		return "", errors.New(`missing required "base_url"`)
	}
	return n.Value, nil
}

func parseHeaders(root *yaml.Node) (map[string]string, error) {
	n := mappingValue(root, "headers")
	if n == nil {
		return nil, nil
	}
	var headers map[string]string
	if err := n.Decode(&headers); err != nil {
		return nil, fmt.Errorf(`invalid "headers": %w`, err)
	}
	return headers, nil
}

// The canonical shape: test_cases with one mapping of cases per category, e.g.
// normal_cases and abnormal_cases.

type caseDoc struct {
	Description      string      `yaml:"description"`
	Endpoint         string      `yaml:"endpoint"`
	UID              interface{} `yaml:"uid"`
	Data             interface{} `yaml:"data"`
	ExpectedStatus   *int        `yaml:"expected_status"`
	ExpectedContains *string     `yaml:"expected_contains"`
}

func parseCasesDocument(root *yaml.Node) (*Suite, error) {
	suite := &Suite{}
	var err error
	if suite.BaseURL, err = parseBaseURL(root); err != nil {
		return nil, err
	}
	if suite.Headers, err = parseHeaders(root); err != nil {
		return nil, err
	}
	casesNode := mappingValue(root, "test_cases")
	if casesNode == nil {
		return nil, errors.New(`missing required "test_cases"`)
	}
	err = eachMappingEntry(casesNode, func(categoryKey string, categoryNode *yaml.Node) error {
		category := Category{Name: categoryName(categoryKey)}
		err := eachMappingEntry(categoryNode, func(caseName string, caseNode *yaml.Node) error {
			tc, err := parseCase(caseName, caseNode)
			if err != nil {
				return err
			}
			category.Cases = append(category.Cases, tc)
			return nil
		})
		if err != nil {
			return err
		}
		suite.Categories = append(suite.Categories, category)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if suite.TotalCases() == 0 {
		return nil, errors.New(`"test_cases" does not define any cases`)
	}
	return suite, nil
}

// categoryName turns a document key like "normal_cases" into the reporting name "normal".
func categoryName(key string) string {
	return strings.TrimSuffix(key, "_cases")
}

func parseCase(name string, node *yaml.Node) (TestCase, error) {
	var doc caseDoc
	if err := node.Decode(&doc); err != nil {
		return TestCase{}, fmt.Errorf("test case %q: %w", name, err)
	}
	if doc.Endpoint == "" {
		return TestCase{}, fmt.Errorf(`test case %q is missing required "endpoint"`, name)
	}
	payload, err := valueFromYAML(doc.Data)
	if err != nil {
		return TestCase{}, fmt.Errorf("test case %q: %w", name, err)
	}
	uid, err := uidFromYAML(doc.UID)
	if err != nil {
		return TestCase{}, fmt.Errorf("test case %q: %w", name, err)
	}
	tc := TestCase{
		Name:        name,
		Description: doc.Description,
		Endpoint:    doc.Endpoint,
		Method:      http.MethodPost,
		UID:         uid,
		Payload:     payload,
		Encoding:    EncodingForm,
		Expect: Expectation{
			Status:   o.Some(DefaultExpectedStatus),
			Contains: o.FromPtr(doc.ExpectedContains),
		},
	}
	if doc.ExpectedStatus != nil {
		tc.Expect.Status = o.Some(*doc.ExpectedStatus)
	}
	return tc, nil
}

// The alternate shape: a mapping of endpoints, each with a route, a method, and a list
// of JSON payloads carrying their own expected_result. It is adapted into one category
// per endpoint; a payload with no expected_result asserts nothing.

type expectedResultDoc struct {
	StatusCode       *int    `yaml:"status_code"`
	ResponseContains *string `yaml:"response_contains"`
}

func (d *expectedResultDoc) toExpectation() Expectation {
	if d == nil {
		return Expectation{}
	}
	return Expectation{
		Status:   o.FromPtr(d.StatusCode),
		Contains: o.FromPtr(d.ResponseContains),
	}
}

func parseEndpointsDocument(root *yaml.Node) (*Suite, error) {
	suite := &Suite{}
	var err error
	if suite.BaseURL, err = parseBaseURL(root); err != nil {
		return nil, err
	}
	if suite.Headers, err = parseHeaders(root); err != nil {
		return nil, err
	}
	endpointsNode := mappingValue(root, "endpoints")
	err = eachMappingEntry(endpointsNode, func(endpointName string, endpointNode *yaml.Node) error {
		category, err := parseEndpoint(endpointName, endpointNode)
		if err != nil {
			return err
		}
		suite.Categories = append(suite.Categories, category)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if suite.TotalCases() == 0 {
		return nil, errors.New(`"endpoints" does not define any cases`)
	}
	return suite, nil
}

func parseEndpoint(name string, node *yaml.Node) (Category, error) {
	var doc struct {
		Route          string             `yaml:"route"`
		Method         string             `yaml:"method"`
		ExpectedResult *expectedResultDoc `yaml:"expected_result"`
	}
	if err := node.Decode(&doc); err != nil {
		return Category{}, fmt.Errorf("endpoint %q: %w", name, err)
	}
	if doc.Route == "" {
		return Category{}, fmt.Errorf(`endpoint %q is missing required "route"`, name)
	}
	if doc.Method == "" {
		return Category{}, fmt.Errorf(`endpoint %q is missing required "method"`, name)
	}

	category := Category{Name: name}
	payloadsNode := mappingValue(node, "payloads")
	if payloadsNode == nil {
		// No payloads means a single body-less case, e.g. a plain GET.
		category.Cases = append(category.Cases, TestCase{
			Name:     fmt.Sprintf("%s - Normal", name),
			Endpoint: doc.Route,
			Method:   strings.ToUpper(doc.Method),
			Encoding: EncodingJSON,
			Expect:   doc.ExpectedResult.toExpectation(),
		})
		return category, nil
	}
	if payloadsNode.Kind != yaml.SequenceNode {
		return Category{}, fmt.Errorf(`endpoint %q: "payloads" must be a sequence`, name)
	}
	for i, payloadNode := range payloadsNode.Content {
		tc, err := parseEndpointPayload(name, i, doc.Route, strings.ToUpper(doc.Method), payloadNode)
		if err != nil {
			return Category{}, err
		}
		category.Cases = append(category.Cases, tc)
	}
	return category, nil
}

func parseEndpointPayload(endpointName string, index int, route, method string, node *yaml.Node) (TestCase, error) {
	caseName := fmt.Sprintf("%s - Test Case %d", endpointName, index+1)

	var expectHolder struct {
		ExpectedResult *expectedResultDoc `yaml:"expected_result"`
	}
	if err := node.Decode(&expectHolder); err != nil {
		return TestCase{}, fmt.Errorf("%s: %w", caseName, err)
	}

	var fields map[string]interface{}
	if err := node.Decode(&fields); err != nil {
		return TestCase{}, fmt.Errorf("%s: %w", caseName, err)
	}
	delete(fields, "expected_result") // expectation metadata, not part of the request body

	payload, err := valueFromYAML(fields)
	if err != nil {
		return TestCase{}, fmt.Errorf("%s: %w", caseName, err)
	}
	return TestCase{
		Name:     caseName,
		Endpoint: route,
		Method:   method,
		Payload:  payload,
		Encoding: EncodingJSON,
		Expect:   expectHolder.ExpectedResult.toExpectation(),
	}, nil
}
