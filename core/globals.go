package core

import (
	"time"

	"github.com/dannybechar/allocation-tracker/internal/outwriter"
)

// writer renders every command result.
var writer = outwriter.NewOutWriter()

// clock is swapped in tests to pin run timestamps.
var clock = time.Now
