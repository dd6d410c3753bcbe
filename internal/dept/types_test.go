package dept

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexInt_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		in      string
		want    FlexInt
		wantErr bool
	}{
		{`12`, 12, false},
		{`"12"`, 12, false},
		{`" 7 "`, 7, false},
		{`12.0`, 12, false},
		{`null`, 0, false},
		{`""`, 0, false},
		{`"abc"`, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var got FlexInt
			err := json.Unmarshal([]byte(tt.in), &got)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFlexFloat(t *testing.T) {
	var got FlexFloat
	require.NoError(t, json.Unmarshal([]byte(`"7.5"`), &got))
	assert.Equal(t, FlexFloat(7.5), got)
	assert.Equal(t, "7.5", got.String())

	require.NoError(t, json.Unmarshal([]byte(`8`), &got))
	assert.Equal(t, "8", got.String())

	assert.Error(t, json.Unmarshal([]byte(`"eight"`), &got))
}

func TestBooking_Editable(t *testing.T) {
	no, yes := false, true
	tests := []struct {
		name    string
		booking Booking
		want    bool
	}{
		{"defaults", Booking{}, true},
		{"locked", Booking{IsLocked: true}, false},
		{"cannot edit", Booking{CanEdit: &no}, false},
		{"explicitly editable", Booking{CanEdit: &yes}, true},
		{"locked but editable flag", Booking{IsLocked: true, CanEdit: &yes}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.booking.Editable())
		})
	}
}

func TestBulkBooking_NullActivityName(t *testing.T) {
	data, err := json.Marshal(BulkBooking{Hours: "8", Dates: []string{"2025-07-07"}})
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Contains(t, decoded, "activityName")
	assert.Nil(t, decoded["activityName"])
	assert.Equal(t, "8", decoded["hours"])
}

func TestSingleDay(t *testing.T) {
	r := SingleDay("2025-07-07")
	assert.Equal(t, "2025-07-07T22:00:00.000Z", r.Until)
	assert.NotNil(t, r.Days)
	assert.Empty(t, r.Days)
}
