package dto

import (
	"testing"

	"github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	helper "kizuna_web/internals/helpers"
)

func TestEventRequest_NormalizeAndValidate(t *testing.T) {
	v := validator.New()

	r := EventRequest{Title: " 第15回 総会 ", Description: "総会", Date: "2025-04-01", Location: "\t"}
	r.Normalize()
	assert.Equal(t, "第15回 総会", r.Title)
	assert.Error(t, v.Struct(&r), "blank location is missing")

	r.Location = "大阪市内ホテル"
	require.NoError(t, v.Struct(&r))

	m, err := r.ToModel()
	require.NoError(t, err)
	assert.Equal(t, "2025-04-01", helper.FormatDate(m.Date))
	assert.Equal(t, r, FormFromModel(m))
}

func TestUpdateEventRequest_OnlyPresentFields(t *testing.T) {
	var p UpdateEventRequest
	require.NoError(t, sonic.UnmarshalString(`{"location":" 東京都内ホテル "}`, &p))
	p.Normalize()

	fields, err := p.ToUpdates()
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"location": "東京都内ホテル"}, fields)

	require.NoError(t, sonic.UnmarshalString(`{"date":"April 1"}`, &p))
	_, err = p.ToUpdates()
	assert.Error(t, err)
}
