package diag_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"zlang/internal/diag"
	"zlang/internal/source"
)

func TestBagLimitAndErrors(t *testing.T) {
	bag := diag.NewBag(2)
	r := diag.BagReporter{Bag: bag}
	r.Report(diag.SemaUnknownOperandType, diag.SevWarning, source.Span{}, "w", nil)
	if bag.HasErrors() {
		t.Fatalf("warning must not count as error")
	}
	r.Report(diag.SynExpectRParen, diag.SevError, source.Span{Start: 3, End: 4}, "expected ')'", nil)
	r.Report(diag.SynExpectRBrace, diag.SevError, source.Span{}, "dropped", nil)
	if bag.Len() != 2 {
		t.Fatalf("limit not honored: %d items", bag.Len())
	}
	first := bag.FirstError()
	if first == nil || first.Code != diag.SynExpectRParen {
		t.Fatalf("FirstError = %+v", first)
	}
}

func TestErrorRoundTrip(t *testing.T) {
	bag := diag.NewBag(4)
	diag.ReportError(diag.BagReporter{Bag: bag}, diag.SemaUndefinedIdent, source.Span{}, "undefined identifier: y").Emit()

	err := diag.FromBag(bag)
	if err == nil {
		t.Fatal("expected error")
	}
	wrapped := fmt.Errorf("eval: %w", err)
	d, ok := diag.DiagnosticOf(wrapped)
	if !ok || d.Code != diag.SemaUndefinedIdent {
		t.Fatalf("DiagnosticOf = %v,%v", d, ok)
	}
	if !strings.Contains(err.Error(), "SEM3001") {
		t.Errorf("error text %q lacks code", err.Error())
	}
	if _, ok := diag.DiagnosticOf(errors.New("plain")); ok {
		t.Errorf("plain errors carry no diagnostic")
	}
	if diag.FromBag(diag.NewBag(1)) != nil {
		t.Errorf("clean bag must yield nil")
	}
}

func TestCodeIDs(t *testing.T) {
	cases := map[diag.Code]string{
		diag.LexUnknownChar:      "LEX1001",
		diag.SynExpectSeparator:  "SYN2002",
		diag.SemaTooManyArgs:     "SEM3009",
		diag.IOLoadFileError:     "IO4001",
		diag.ProjManifestInvalid: "PRJ5001",
	}
	for code, want := range cases {
		if got := code.ID(); got != want {
			t.Errorf("%d.ID() = %s, want %s", code, got, want)
		}
	}
}

func TestFormatShort(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("a.z", []byte("let x\nx $ 1\n"))
	d := diag.NewError(diag.LexUnknownChar, source.Span{File: id, Start: 8, End: 9}, "unknown character '$'")
	got := diag.FormatShort([]*diag.Diagnostic{d}, fs)
	want := "ERROR LEX1001 a.z:2:3: unknown character '$'\n"
	if got != want {
		t.Errorf("got %q\nwant %q", got, want)
	}
}

func TestSeverityString(t *testing.T) {
	tests := []struct {
		sev   diag.Severity
		want  string
		isErr bool
	}{
		{diag.SevInfo, "INFO", false},
		{diag.SevWarning, "WARNING", false},
		{diag.SevError, "ERROR", true},
		{diag.Severity(9), "UNKNOWN", true},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.sev.String(); got != tt.want {
				t.Fatalf("String() = %q, want %q", got, tt.want)
			}
			if got := tt.sev.IsError(); got != tt.isErr {
				t.Fatalf("IsError() = %v, want %v", got, tt.isErr)
			}
		})
	}
}
