package harness

import (
	"net/url"

	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"

	o "github.com/questlabs/api-test-harness/framework/opt"
)

// Form field names expected by the target service.
const (
	FormFieldUID  = "uid"
	FormFieldData = "data"
)

// FormBody constructs the form-encoded request body for an API call. It is a pure
// function of its inputs.
//
// An undefined uid or a null payload means the corresponding field is omitted from the
// body entirely - absence, not an empty string, is how "not sent" is expressed, which is
// what the missing-parameter test cases rely on.
func FormBody(uid o.Maybe[string], payload ldvalue.Value) url.Values {
	form := url.Values{}
	if uid.IsDefined() {
		form.Set(FormFieldUID, uid.Value())
	}
	if !payload.IsNull() {
		form.Set(FormFieldData, EncodePayload(payload))
	}
	return form
}

// EncodePayload renders a payload value the way it appears on the wire. Structured values
// (objects and arrays) get their canonical compact JSON encoding; a raw string is passed
// through byte-for-byte unchanged, which is the mechanism for sending deliberately
// malformed data in a test case. Other scalars use their JSON form.
func EncodePayload(payload ldvalue.Value) string {
	if payload.Type() == ldvalue.StringType {
		return payload.StringValue()
	}
	return payload.JSONString()
}
