package ch

import (
	"errors"
	"fmt"

	"github.com/ClickHouse/clickhouse-go/v2/lib/proto"

	perr "trendlens/internal/platform/errors"
)

// server exception codes the raw loaders can hit
const (
	codeCannotParseText     = 6
	codeNoSuchColumn        = 16
	codeCannotParseNumber   = 27
	codeCannotParseDateTime = 41
	codeUnknownIdentifier   = 47
	codeUnknownTable        = 60
	codeUnknownDatabase     = 81
	codeSocketTimeout       = 209
	codeNetworkError        = 210
)

// Exception returns the server exception behind err, if any
func Exception(err error) (*proto.Exception, bool) {
	var ex *proto.Exception
	if errors.As(err, &ex) {
		return ex, true
	}
	return nil, false
}

// ErrorCode maps a server exception to an ErrorCode, !ok when err is not one
func ErrorCode(err error) (perr.ErrorCode, bool) {
	ex, ok := Exception(err)
	if !ok {
		return perr.ErrorCodeUnknown, false
	}
	switch ex.Code {
	case codeUnknownTable, codeUnknownDatabase, codeUnknownIdentifier, codeNoSuchColumn,
		codeCannotParseText, codeCannotParseNumber, codeCannotParseDateTime:
		return perr.ErrorCodeSchema, true
	case codeSocketTimeout, codeNetworkError:
		return perr.ErrorCodeUnavailable, true
	}
	return perr.ErrorCodeDB, true
}

// Wrapf wraps a clickhouse error with its mapped code
func Wrapf(err error, format string, a ...any) error {
	if err == nil {
		return nil
	}
	code, ok := ErrorCode(err)
	if !ok {
		code = perr.ErrorCodeDB
	}
	return perr.Wrap(err, code, fmt.Sprintf(format, a...))
}
