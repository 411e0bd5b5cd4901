package logging

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

func TestFromContext(t *testing.T) {
	if FromContext(context.Background()) != logrus.StandardLogger() {
		t.Error("expected the standard logger without a request logger")
	}

	logger, hook := test.NewNullLogger()
	ctx := WithLogger(context.Background(), logger.WithField("request_id", "abc"))
	FromContext(ctx).Info("hello")

	if len(hook.Entries) != 1 || hook.LastEntry().Data["request_id"] != "abc" {
		t.Errorf("entries = %+v", hook.Entries)
	}
}

func TestSetup(t *testing.T) {
	defer logrus.SetLevel(logrus.InfoLevel)

	if err := Setup("debug", "json"); err != nil {
		t.Fatalf("Setup error = %v", err)
	}
	if logrus.GetLevel() != logrus.DebugLevel {
		t.Errorf("level = %v", logrus.GetLevel())
	}
	if err := Setup("loud", "text"); err == nil {
		t.Error("expected an error for an unknown level")
	}
}
