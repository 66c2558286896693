package utils_test

import (
	"bufio"
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/TU-Berlin-DIMA/scrum-tools/internal/utils"
)

func TestFlushingWriterFlushesBufferedWriters(testInstance *testing.T) {
	var destination bytes.Buffer
	bufferedWriter := bufio.NewWriterSize(&destination, 4096)

	flushingWriter := utils.NewFlushingWriter(bufferedWriter)
	_, writeError := flushingWriter.Write([]byte("Creating repository 'example.g01'... "))
	require.NoError(testInstance, writeError)
	require.Equal(testInstance, "Creating repository 'example.g01'... ", destination.String())

	require.Same(testInstance, flushingWriter, utils.NewFlushingWriter(flushingWriter))
	require.Nil(testInstance, utils.NewFlushingWriter(nil))
}
