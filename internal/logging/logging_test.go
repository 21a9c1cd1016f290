package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Defaults(t *testing.T) {
	logger, err := New(Options{})
	require.NoError(t, err)
	assert.Equal(t, logrus.InfoLevel, logger.GetLevel())
	assert.IsType(t, &logrus.TextFormatter{}, logger.Formatter)
}

func TestNew_JSONOutput(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "debug", Format: "JSON", Output: &buf})
	require.NoError(t, err)

	logger.WithField("page", 2).Debug("page fetched")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "page fetched", entry["msg"])
	assert.Equal(t, "debug", entry["level"])
	assert.Equal(t, float64(2), entry["page"])
}

func TestNew_Invalid(t *testing.T) {
	_, err := New(Options{Level: "loud"})
	assert.Error(t, err)

	_, err = New(Options{Format: "xml"})
	assert.Error(t, err)
}

func TestRedactHook(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Format: FormatJSON, Output: &buf})
	require.NoError(t, err)

	logger.WithFields(logrus.Fields{
		"username":      "jane",
		"password":      "hunter2",
		"access_token":  "abc",
		"client_secret": "s3cr3t",
	}).Info("login")

	out := buf.String()
	assert.Contains(t, out, "jane")
	assert.NotContains(t, out, "hunter2")
	assert.NotContains(t, out, "abc")
	assert.NotContains(t, out, "s3cr3t")
	assert.Contains(t, out, mask)
}

func TestRedactHook_ExtraFields(t *testing.T) {
	hook := NewRedactHook("Email")
	entry := &logrus.Entry{Data: logrus.Fields{"user_email": "a@b.c", "job_id": 4}}
	require.NoError(t, hook.Fire(entry))
	assert.Equal(t, mask, entry.Data["user_email"])
	assert.Equal(t, 4, entry.Data["job_id"])
}

func TestDiscard(t *testing.T) {
	assert.NotPanics(t, func() { Discard().Info("nothing") })
}
