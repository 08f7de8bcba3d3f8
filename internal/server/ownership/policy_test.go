package ownership

import (
	"errors"
	"testing"

	"github.com/dmitrijs2005/taskplaces/internal/common"
	"github.com/stretchr/testify/assert"
)

func TestDecide(t *testing.T) {
	tests := []struct {
		name   string
		found  bool
		owner  string
		caller string
		want   Decision
	}{
		{"owner", true, "a", "a", Allow},
		{"stranger", true, "a", "b", Forbidden},
		{"missing beats ownership", false, "", "a", NotFound},
		{"missing even for matching ids", false, "a", "a", NotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Decide(tt.found, tt.owner, tt.caller))
		})
	}
}

func TestDecision_Err(t *testing.T) {
	assert.NoError(t, Allow.Err("Task", "update"))

	err := NotFound.Err("Task", "update")
	assert.True(t, errors.Is(err, common.ErrorNotFound))
	assert.Equal(t, "Task not found", err.Error())

	err = Forbidden.Err("Place", "delete")
	assert.True(t, errors.Is(err, common.ErrorForbidden))
	assert.Equal(t, "You cannot delete a place that is not yours", err.Error())

	assert.ErrorIs(t, Decision(42).Err("Task", "view"), common.ErrorInternal)
	assert.Equal(t, "decision(42)", Decision(42).String())
}
