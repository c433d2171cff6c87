package errors

import (
	"reflect"
	"testing"
)

func TestFieldErrors(t *testing.T) {
	// Built once so that the results can be compared with DeepEqual.
	var (
		makerErr    = Field("Maker", ErrInvalidInput, "address")
		makerSigErr = Field("Maker", ErrUnauthorized, "no signature")
		receiveErr  = Field("Receive", ErrInvalidAmount, "must be greater than zero")
		schemaErr   = Field("Schema", ErrEmpty, "")
		metaErr     = Field("Metadata", Append(schemaErr, ErrInvalidState), "")
		msgErr      = Append(makerErr, receiveErr, metaErr)
		outerErr    = Field("Receive", receiveErr, "outer")
	)

	cases := map[string]struct {
		err   error
		field string
		want  []error
	}{
		"nil": {
			err:   nil,
			field: "Maker",
			want:  nil,
		},
		"not a field error": {
			err:   ErrInvalidInput,
			field: "Maker",
			want:  nil,
		},
		"other field": {
			err:   makerErr,
			field: "Receive",
			want:  nil,
		},
		"direct match": {
			err:   makerErr,
			field: "Maker",
			want:  []error{makerErr},
		},
		"every match of a multi error": {
			err:   Append(makerErr, receiveErr, makerSigErr),
			field: "Maker",
			want:  []error{makerErr, makerSigErr},
		},
		"wrapped multi error": {
			err:   Wrap(Wrap(msgErr, "make"), "deliver"),
			field: "Receive",
			want:  []error{receiveErr},
		},
		"nested field holding a multi error": {
			err:   msgErr,
			field: "Metadata",
			want:  []error{metaErr},
		},
		"inside a nested field": {
			err:   Wrap(msgErr, "make"),
			field: "Schema",
			want:  []error{schemaErr},
		},
		"same field nested returns the outer one": {
			err:   outerErr,
			field: "Receive",
			want:  []error{outerErr},
		},
		"wrapped field errors": {
			err:   Append(Wrap(makerErr, "a"), Wrap(receiveErr, "b"), Wrap(makerSigErr, "c")),
			field: "Maker",
			want:  []error{makerErr, makerSigErr},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			got := FieldErrors(tc.err, tc.field)
			if !reflect.DeepEqual(tc.want, got) {
				t.Logf("want: %#v", tc.want)
				t.Logf(" got: %#v", got)
				t.Fatal("unexpected result")
			}
		})
	}
}

func TestAppendField(t *testing.T) {
	if err := AppendField(nil, "Maker", nil); err != nil {
		t.Fatalf("nil field error must be dropped, got %v", err)
	}
	err := AppendField(nil, "Amount", ErrInvalidAmount)
	if !ErrInvalidAmount.Is(err) {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := FieldErrors(err, "Amount"); len(got) != 1 {
		t.Fatalf("want one Amount error, got %d", len(got))
	}
}
