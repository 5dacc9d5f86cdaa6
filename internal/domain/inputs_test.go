package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexIDDecoding(t *testing.T) {
	cases := map[string]FlexID{
		`{"serviceId":3}`:      3,
		`{"serviceId":"3"}`:    3,
		`{"serviceId":" 12 "}`: 12,
		`{"serviceId":""}`:     0,
		`{"serviceId":null}`:   0,
		`{}`:                   0,
	}
	for in, want := range cases {
		var req BookingRequest
		require.NoError(t, json.Unmarshal([]byte(in), &req), in)
		assert.Equal(t, want, req.ServiceID, in)
	}

	for _, in := range []string{`{"serviceId":"abc"}`, `{"serviceId":1.5}`, `{"serviceId":true}`} {
		var req BookingRequest
		assert.Error(t, json.Unmarshal([]byte(in), &req), in)
	}
}
