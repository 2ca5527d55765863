package scan

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePorts(t *testing.T) {
	tests := map[string][]int{
		"22":              {22},
		"22,80":           {22, 80},
		"80,22":           {80, 22},
		"1-3":             {1, 2, 3},
		" 22 , 80 ":       {22, 80},
		"22,80,8000-8002": {22, 80, 8000, 8001, 8002},
		"80,79-81":        {80, 79, 81},
		"65535":           {65535},
	}

	for selection, expected := range tests {
		t.Run(selection, func(t *testing.T) {
			ports, err := ParsePorts(selection)
			require.NoError(t, err)
			assert.Equal(t, expected, ports)
		})
	}
}

func TestParsePortsRejectsInvalidSelections(t *testing.T) {
	for _, selection := range []string{
		"",
		"0",
		"65536",
		"10-1",
		"abc",
		"22,",
		"1-70000",
		"1-2-3",
		"-5",
	} {
		t.Run(selection, func(t *testing.T) {
			_, err := ParsePorts(selection)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidRange))
		})
	}
}

func TestDefaultPortsCoverWellKnownRange(t *testing.T) {
	require.Len(t, DefaultPorts, 1024)
	assert.Equal(t, 1, DefaultPorts[0])
	assert.Equal(t, 1024, DefaultPorts[1023])
}

func TestDescribePort(t *testing.T) {
	assert.Equal(t, "ssh", DescribePort(22))
	assert.Equal(t, "http", DescribePort(80))
	assert.Equal(t, "", DescribePort(0))
	assert.Equal(t, "", DescribePort(70000))
}
