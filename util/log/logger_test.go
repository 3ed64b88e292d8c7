package log

import (
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func TestFormatPlain(t *testing.T) {
	flf := &FancyLogFormatter{UseColors: false}
	entry := &logrus.Entry{
		Time:    time.Date(2019, 5, 23, 13, 37, 0, 0, time.UTC),
		Level:   logrus.InfoLevel,
		Message: "hello world",
	}

	data, err := flf.Format(entry)
	require.Nil(t, err)

	line := string(data)
	require.True(t, strings.Contains(line, "23.05.2019/13:37:00"))
	require.True(t, strings.Contains(line, "hello world"))
	require.True(t, strings.HasSuffix(line, "\n"))
}

func TestFormatFields(t *testing.T) {
	flf := &FancyLogFormatter{UseColors: false}
	entry := &logrus.Entry{
		Time:    time.Now(),
		Level:   logrus.WarnLevel,
		Message: "short write",
		Data: logrus.Fields{
			"off": 1234,
		},
	}

	data, err := flf.Format(entry)
	require.Nil(t, err)
	require.True(t, strings.Contains(string(data), "off=1234"))
}
