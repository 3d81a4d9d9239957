package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultPage_AplicaValoresPorDefecto(t *testing.T) {
	var p PageRequest
	p.DefaultPage()
	assert.Equal(t, 20, p.Limit)
	assert.Equal(t, 0, p.Offset)
}

func TestDefaultPage_RespetaValoresExplicitos(t *testing.T) {
	p := PageRequest{Limit: 50, Offset: 100}
	p.DefaultPage()
	assert.Equal(t, 50, p.Limit)
	assert.Equal(t, 100, p.Offset)
}

func TestDefaultPage_CorrigeOffsetNegativo(t *testing.T) {
	p := PageRequest{Limit: 10, Offset: -5}
	p.DefaultPage()
	assert.Equal(t, 0, p.Offset)
}
