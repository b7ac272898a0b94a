package apitest

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

type regexFilterTestParams struct {
	run         []string
	skip        []string
	testID      TestID
	shouldMatch bool
}

func TestRegexFilters(t *testing.T) {
	allParams := []regexFilterTestParams{
		// matches everything by default
		{nil, nil, TestID(nil), true},
		{nil, nil, TestID{"normal"}, true},
		{nil, nil, TestID{"normal", "fetch_quest_list"}, true},

		// -run with single component; a parent scope always matches so its children get a chance
		{[]string{"normal"}, nil, TestID(nil), true},
		{[]string{"normal"}, nil, TestID{"normal"}, true},
		{[]string{"normal"}, nil, TestID{"abnormal"}, false},
		{[]string{"norm"}, nil, TestID{"abnormal"}, true}, // regex match, not exact
		{[]string{"normal"}, nil, TestID{"normal", "fetch_quest_list"}, true},

		// -run with multiple components
		{[]string{"normal/fetch"}, nil, TestID{"normal"}, true},
		{[]string{"normal/fetch"}, nil, TestID{"abnormal"}, false},
		{[]string{"normal/fetch"}, nil, TestID{"normal", "fetch_quest_list"}, true},
		{[]string{"normal/fetch"}, nil, TestID{"normal", "skip_main_quest"}, false},

		// -run with multiple patterns
		{[]string{"^normal$", "^abnormal$"}, nil, TestID{"normal"}, true},
		{[]string{"^normal$", "^abnormal$"}, nil, TestID{"abnormal"}, true},
		{[]string{"^normal$", "^abnormal$"}, nil, TestID{"other"}, false},

		// -skip with single component
		{nil, []string{"abnormal"}, TestID{"normal"}, true},
		{nil, []string{"abnormal"}, TestID{"abnormal"}, false},
		{nil, []string{"abnormal"}, TestID{"abnormal", "missing_uid"}, false},

		// -skip with multiple components only excludes that exact depth or deeper
		{nil, []string{"normal/fetch"}, TestID{"normal"}, true},
		{nil, []string{"normal/fetch"}, TestID{"normal", "fetch_quest_list"}, false},
		{nil, []string{"normal/fetch"}, TestID{"normal", "skip_main_quest"}, true},

		// -skip overrides -run
		{[]string{"normal"}, []string{"fetch"}, TestID{"normal"}, true},
		{[]string{"normal"}, []string{"normal"}, TestID{"normal"}, false},
	}
	for _, params := range allParams {
		var r RegexFilters
		for _, s := range params.run {
			_ = r.MustMatch.Set(s)
		}
		for _, s := range params.skip {
			_ = r.MustNotMatch.Set(s)
		}
		t.Run(fmt.Sprintf("run=%s, skip=%s, id=%s", r.MustMatch, r.MustNotMatch, params.testID), func(t *testing.T) {
			assert.Equal(t, params.shouldMatch, r.Match(params.testID))
		})
	}
}

func TestParseTestIDPatternRejectsBadRegex(t *testing.T) {
	_, err := ParseTestIDPattern("a/(unclosed")
	assert.Error(t, err)
}
