package pipeline

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const testHeader = `$timescale 1ns $end
$scope module tb $end
$var reg 4 ! a [3:0] $end
$var reg 4 " b [3:0] $end
$var reg 3 % state_select [2:0] $end
$upscope $end
$enddefinitions $end
`

// testBody yields five ticks:
//
//	time  a   b  state_select
//	0     3  -4  0
//	10    5  -4  0
//	20    5  -1  3
//	30    0  -1  3
//	40    0  -1  0
var testBody = []string{
	"b0011 !",
	"b1100 \"",
	"b000 %",
	"#0",
	"b0101 !",
	"#10",
	"b011 %",
	"b1111 \"",
	"#20",
	"b0000 !",
	"#30",
	"b000 %",
	"#40",
}

func writeTrace(t *testing.T, body ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tb.vcd")
	require.NoError(t, os.WriteFile(path, []byte(testHeader+strings.Join(body, "\n")+"\n"), 0o644))
	return path
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func intPtr(v int) *int {
	return &v
}
