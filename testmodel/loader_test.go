package testmodel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	o "github.com/questlabs/api-test-harness/framework/opt"
)

const canonicalConfig = `
base_url: http://localhost:9000/api/Quest
headers:
  X-Api-Key: secret
test_cases:
  normal_cases:
    fetch_quest_list:
      description: first page
      endpoint: FetchQuestList
      uid: "123456"
      data:
        page: 1
    skip_main_quest:
      endpoint: SkipMainQuest
      uid: 123456
      data:
        questId: 1001
  abnormal_cases:
    missing_uid:
      endpoint: FetchQuestList
      data:
        page: 1
      expected_status: 400
      expected_contains: uid
    invalid_json:
      endpoint: FetchQuestList
      uid: "123456"
      data: "{not json"
      expected_status: 400
`

func TestParseCanonicalSuite(t *testing.T) {
	suite, err := ParseSuite([]byte(canonicalConfig))
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:9000/api/Quest", suite.BaseURL)
	assert.Equal(t, map[string]string{"X-Api-Key": "secret"}, suite.Headers)
	assert.Equal(t, 4, suite.TotalCases())

	require.Len(t, suite.Categories, 2)
	assert.Equal(t, "normal", suite.Categories[0].Name)
	assert.Equal(t, "abnormal", suite.Categories[1].Name)
}

func TestParseCanonicalSuitePreservesDeclarationOrder(t *testing.T) {
	suite, err := ParseSuite([]byte(canonicalConfig))
	require.NoError(t, err)

	var names []string
	for _, tc := range suite.Categories[0].Cases {
		names = append(names, tc.Name)
	}
	assert.Equal(t, []string{"fetch_quest_list", "skip_main_quest"}, names)

	names = nil
	for _, tc := range suite.Categories[1].Cases {
		names = append(names, tc.Name)
	}
	assert.Equal(t, []string{"missing_uid", "invalid_json"}, names)
}

func TestParseCanonicalCaseFields(t *testing.T) {
	suite, err := ParseSuite([]byte(canonicalConfig))
	require.NoError(t, err)

	tc := suite.Categories[0].Cases[0]
	assert.Equal(t, "first page", tc.Description)
	assert.Equal(t, "FetchQuestList", tc.Endpoint)
	assert.Equal(t, "POST", tc.Method)
	assert.Equal(t, EncodingForm, tc.Encoding)
	assert.Equal(t, o.Some("123456"), tc.UID)
	assert.Equal(t, `{"page":1}`, tc.Payload.JSONString())
}

func TestParseCaseDefaultsExpectedStatus(t *testing.T) {
	suite, err := ParseSuite([]byte(canonicalConfig))
	require.NoError(t, err)

	tc := suite.Categories[0].Cases[0]
	assert.Equal(t, o.Some(DefaultExpectedStatus), tc.Expect.Status)
	assert.False(t, tc.Expect.Contains.IsDefined())

	missingUID := suite.Categories[1].Cases[0]
	assert.Equal(t, o.Some(400), missingUID.Expect.Status)
	assert.Equal(t, o.Some("uid"), missingUID.Expect.Contains)
}

func TestParseCaseNumericUIDBecomesDecimalString(t *testing.T) {
	suite, err := ParseSuite([]byte(canonicalConfig))
	require.NoError(t, err)

	tc := suite.Categories[0].Cases[1]
	assert.Equal(t, o.Some("123456"), tc.UID)
}

func TestParseCaseAbsentUIDAndData(t *testing.T) {
	suite, err := ParseSuite([]byte(`
base_url: http://localhost:9000
test_cases:
  abnormal_cases:
    missing_everything:
      endpoint: FetchQuestList
      expected_status: 400
`))
	require.NoError(t, err)

	tc := suite.Categories[0].Cases[0]
	assert.False(t, tc.UID.IsDefined())
	assert.True(t, tc.Payload.IsNull())
}

func TestParseCaseNullUIDIsAbsent(t *testing.T) {
	suite, err := ParseSuite([]byte(`
base_url: http://localhost:9000
test_cases:
  abnormal_cases:
    null_uid:
      endpoint: FetchQuestList
      uid: null
      data:
        page: 1
      expected_status: 400
`))
	require.NoError(t, err)

	assert.False(t, suite.Categories[0].Cases[0].UID.IsDefined())
}

func TestParseCaseRawStringPayloadIsPreserved(t *testing.T) {
	suite, err := ParseSuite([]byte(canonicalConfig))
	require.NoError(t, err)

	tc := suite.Categories[1].Cases[1]
	assert.Equal(t, "{not json", tc.Payload.StringValue())
}

func TestParseSuiteErrors(t *testing.T) {
	for name, config := range map[string]string{
		"empty document":   ``,
		"not a mapping":    `[1, 2]`,
		"missing base_url": "test_cases:\n  normal_cases:\n    c:\n      endpoint: E\n",
		"missing cases":    "base_url: http://localhost\n",
		"no cases defined": "base_url: http://localhost\ntest_cases: {}\n",
		"missing endpoint": "base_url: http://localhost\ntest_cases:\n  normal_cases:\n    c:\n      data: {}\n",
		"malformed yaml":   "base_url: [unclosed\n",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ParseSuite([]byte(config))
			assert.Error(t, err)
		})
	}
}

func TestParseEndpointsSuite(t *testing.T) {
	suite, err := ParseSuite([]byte(`
base_url: http://localhost:9000
endpoints:
  QuestStatus:
    route: /api/Quest
    method: GET
    expected_result:
      status_code: 200
      response_contains: ok
  FetchQuestList:
    route: /api/Quest/FetchQuestList
    method: post
    payloads:
      - uid: "123456"
        page: 1
        expected_result:
          status_code: 200
      - page: 1
`))
	require.NoError(t, err)

	require.Len(t, suite.Categories, 2)
	assert.Equal(t, 3, suite.TotalCases())

	status := suite.Categories[0]
	assert.Equal(t, "QuestStatus", status.Name)
	require.Len(t, status.Cases, 1)
	assert.Equal(t, "QuestStatus - Normal", status.Cases[0].Name)
	assert.Equal(t, "/api/Quest", status.Cases[0].Endpoint)
	assert.Equal(t, "GET", status.Cases[0].Method)
	assert.Equal(t, EncodingJSON, status.Cases[0].Encoding)
	assert.True(t, status.Cases[0].Payload.IsNull())
	assert.Equal(t, o.Some(200), status.Cases[0].Expect.Status)
	assert.Equal(t, o.Some("ok"), status.Cases[0].Expect.Contains)

	fetch := suite.Categories[1]
	require.Len(t, fetch.Cases, 2)
	assert.Equal(t, "FetchQuestList - Test Case 1", fetch.Cases[0].Name)
	assert.Equal(t, "POST", fetch.Cases[0].Method)
	assert.Equal(t, "123456", fetch.Cases[0].Payload.GetByKey("uid").StringValue())
	assert.Equal(t, 1, fetch.Cases[0].Payload.GetByKey("page").IntValue())
	assert.Equal(t, o.Some(200), fetch.Cases[0].Expect.Status)

	// A payload with no expected_result asserts nothing.
	assert.Equal(t, "FetchQuestList - Test Case 2", fetch.Cases[1].Name)
	assert.False(t, fetch.Cases[1].Expect.IsDefined())
}

func TestParseEndpointsSuiteStripsExpectedResultFromPayload(t *testing.T) {
	suite, err := ParseSuite([]byte(`
base_url: http://localhost:9000
endpoints:
  E:
    route: /e
    method: POST
    payloads:
      - a: 1
        expected_result:
          status_code: 400
`))
	require.NoError(t, err)

	tc := suite.Categories[0].Cases[0]
	assert.Equal(t, `{"a":1}`, tc.Payload.JSONString())
	assert.Equal(t, o.Some(400), tc.Expect.Status)
}

func TestParseEndpointsSuiteErrors(t *testing.T) {
	for name, config := range map[string]string{
		"missing route":  "base_url: http://localhost\nendpoints:\n  E:\n    method: GET\n",
		"missing method": "base_url: http://localhost\nendpoints:\n  E:\n    route: /e\n",
		"payloads not a sequence": "base_url: http://localhost\nendpoints:\n  E:\n    route: /e\n" +
			"    method: POST\n    payloads: {}\n",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ParseSuite([]byte(config))
			assert.Error(t, err)
		})
	}
}

func TestParseSuiteAcceptsJSONDocument(t *testing.T) {
	// JSON is a subset of YAML, so the one decoding path covers both formats.
	suite, err := ParseSuite([]byte(`{
		"base_url": "http://localhost:9000",
		"test_cases": {
			"normal_cases": {
				"fetch_quest_list": {
					"endpoint": "FetchQuestList",
					"uid": "123456",
					"data": {"page": 1}
				}
			}
		}
	}`))
	require.NoError(t, err)

	assert.Equal(t, 1, suite.TotalCases())
	tc := suite.Categories[0].Cases[0]
	assert.Equal(t, "FetchQuestList", tc.Endpoint)
	assert.Equal(t, o.Some("123456"), tc.UID)
	assert.Equal(t, `{"page":1}`, tc.Payload.JSONString())
}

func TestLoadSuiteFileMissing(t *testing.T) {
	_, err := LoadSuiteFile("does-not-exist.yaml")
	assert.Error(t, err)
}
