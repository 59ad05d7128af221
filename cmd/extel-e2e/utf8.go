package main

import (
	"unicode/utf8"

	"github.com/ormasoftchile/extel/pkg/command"
	"github.com/ormasoftchile/extel/pkg/outcome"
	"github.com/ormasoftchile/extel/pkg/suite"
)

func goodUTF8() error {
	_, err := command.DecodeUTF8([]byte{0x00})
	return err
}

// badUTF8 propagates the decode error, which becomes the failure message.
func badUTF8() error {
	_, err := command.DecodeUTF8([]byte{0xFF})
	return err
}

func explicitUTF8Check() outcome.Outcome {
	if !utf8.Valid([]byte{0xFF}) {
		return outcome.Fail("invalid conversion from UTF-8")
	}
	return outcome.Pass()
}

// Utf8TestSuite shows the two ways a test can report a decoding failure.
func Utf8TestSuite() *suite.Suite {
	return suite.New("Utf8TestSuite",
		suite.TestErr("good_utf8", goodUTF8),
		suite.TestErr("bad_utf8", badUTF8),
		suite.Test("original_handle_crash_way", explicitUTF8Check),
	)
}
