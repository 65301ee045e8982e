package model

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/schema"
)

// GORM only keeps an explicit false on insert when the field has no tag default.
func TestJobModel_IsActiveDefaultLivesInTheDatabase(t *testing.T) {
	s, err := schema.Parse(&JobModel{}, &sync.Map{}, schema.NamingStrategy{})
	require.NoError(t, err)

	f := s.LookUpField("is_active")
	require.NotNil(t, f)
	assert.False(t, f.HasDefaultValue)
	assert.Nil(t, f.DefaultValueInterface)
	assert.True(t, f.NotNull)

	assert.Equal(t, "true", JobModel{}.ColumnDefaults()["is_active"])
}

func TestEmploymentLabel(t *testing.T) {
	assert.Equal(t, "正社員", EmploymentLabel("full_time"))
	assert.Equal(t, "業務委託", EmploymentLabel("subcontract"))
	assert.Equal(t, "インターン", EmploymentLabel("インターン"))
}
