package testmodel

import (
	"testing"

	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	o "github.com/questlabs/api-test-harness/framework/opt"
)

func TestValueFromYAML(t *testing.T) {
	t.Run("nil is null", func(t *testing.T) {
		v, err := valueFromYAML(nil)
		require.NoError(t, err)
		assert.True(t, v.IsNull())
	})

	t.Run("string stays a string", func(t *testing.T) {
		v, err := valueFromYAML("{deliberately malformed")
		require.NoError(t, err)
		assert.Equal(t, ldvalue.StringType, v.Type())
		assert.Equal(t, "{deliberately malformed", v.StringValue())
	})

	t.Run("nested mapping", func(t *testing.T) {
		v, err := valueFromYAML(map[string]interface{}{
			"questId": 1001,
			"extra":   map[interface{}]interface{}{"nested": true},
		})
		require.NoError(t, err)
		assert.Equal(t, 1001, v.GetByKey("questId").IntValue())
		assert.True(t, v.GetByKey("extra").GetByKey("nested").BoolValue())
	})

	t.Run("non-string map key is rejected", func(t *testing.T) {
		_, err := valueFromYAML(map[interface{}]interface{}{1: "x"})
		assert.Error(t, err)
	})
}

func TestUIDFromYAML(t *testing.T) {
	t.Run("nil is absent", func(t *testing.T) {
		uid, err := uidFromYAML(nil)
		require.NoError(t, err)
		assert.False(t, uid.IsDefined())
	})

	t.Run("string passes through", func(t *testing.T) {
		uid, err := uidFromYAML("123456")
		require.NoError(t, err)
		assert.Equal(t, o.Some("123456"), uid)
	})

	t.Run("number becomes its decimal form", func(t *testing.T) {
		uid, err := uidFromYAML(123456)
		require.NoError(t, err)
		assert.Equal(t, o.Some("123456"), uid)
	})
}
