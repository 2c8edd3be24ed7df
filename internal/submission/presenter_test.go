package submission

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestViewPresenter(t *testing.T) {
	p := NewViewPresenter()
	assert.Equal(t, View{}, p.View())

	p.Present(State{Phase: PhaseUploadingAssets})
	assert.True(t, p.View().Busy)

	p.Present(State{Phase: PhaseSucceeded, BookName: "Foo", Message: "Book added successfully!"})
	v := p.View()
	assert.False(t, v.Busy)
	require.NotNil(t, v.Modal)
	assert.Equal(t, Modal{Mode: ModalSuccess, BookName: "Foo", Message: "Book added successfully!"}, *v.Modal)

	p.Dismiss()
	assert.Nil(t, p.View().Modal)

	p.Present(State{Phase: PhaseFailed, Error: "disk full"})
	v = p.View()
	require.NotNil(t, v.Modal)
	assert.Equal(t, ModalError, v.Modal.Mode)
	assert.Equal(t, "disk full", v.Modal.Message)
}

func TestViewPresenterReturnsCopy(t *testing.T) {
	p := NewViewPresenter()
	p.Present(State{Phase: PhaseFailed, Error: "x"})
	v := p.View()
	v.Modal.Message = "changed"
	assert.Equal(t, "x", p.View().Modal.Message)
}
