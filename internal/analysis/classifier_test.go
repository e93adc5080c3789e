package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const pytestTrace = `def test_checkout_total():
        cart = make_cart()
>       assert cart.total == 5
E       AssertionError: expected 5 but got 3
tests/test_cart.py:42: AssertionError`

const javaTrace = `java.lang.NullPointerException: Cannot invoke method on null object
	at com.example.cart.CartService.computeTotal(CartService.java:88)
	at com.example.cart.CartServiceTest.testTotal(CartServiceTest.java:31)`

func TestExtractExceptionType(t *testing.T) {
	tests := []struct {
		name    string
		trace   string
		message string
		want    string
	}{
		{"pytest marker line", pytestTrace, "", "AssertionError"},
		{"java first line", javaTrace, "", "NullPointerException"},
		{"common name anywhere", "something went wrong\nTimeoutError while waiting", "", "TimeoutError"},
		{"qualified type stripped", "", "requests.exceptions.ConnectionError: refused", "ConnectionError"},
		{"raise statement", `    raise ProvisioningError("no capacity")`, "", "ProvisioningError"},
		{"message only", "", "ValueError: bad literal", "ValueError"},
		{"nothing recognizable", "segfault at address", "boom", UnknownExceptionType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractExceptionType(tt.trace, tt.message))
		})
	}
}

func TestExtractRootCause(t *testing.T) {
	t.Run("python location with enclosing def", func(t *testing.T) {
		rc := ExtractRootCause(pytestTrace)
		assert.Equal(t, "test_cart", rc.Class)
		assert.Equal(t, "test_checkout_total", rc.Method)
		assert.Equal(t, "test_cart.py:42", rc.Location)
		assert.Equal(t, "test_cart.test_checkout_total", rc.String())
	})

	t.Run("classic python frame", func(t *testing.T) {
		trace := `Traceback (most recent call last):
  File "/opt/app/services/billing.py", line 117, in charge
    gateway.submit(amount)`
		rc := ExtractRootCause(trace)
		assert.Equal(t, "billing", rc.Class)
		assert.Equal(t, "charge", rc.Method)
		assert.Equal(t, "billing.py:117", rc.Location)
	})

	t.Run("java at frame", func(t *testing.T) {
		rc := ExtractRootCause(javaTrace)
		assert.Equal(t, "CartService", rc.Class)
		assert.Equal(t, "computeTotal", rc.Method)
	})

	t.Run("no frames", func(t *testing.T) {
		assert.Equal(t, UnknownRootCause, ExtractRootCause("total garbage"))
	})
}

func TestCategorize(t *testing.T) {
	tests := []struct {
		name    string
		excType string
		message string
		trace   string
		want    Category
	}{
		{"assertion by type", "AssertionError", "", "", CategoryAssertion},
		{"assertion by keyword", "RuntimeError", "assert failed on step 3", "", CategoryAssertion},
		{"null pointer", "NullPointerException", "", "", CategoryNullPointer},
		{"nonetype", "AttributeError", "'NoneType' object has no attribute 'id'", "", CategoryNullPointer},
		{"timeout", "TimeoutError", "", "", CategoryTimeout},
		{"timed out keyword", "RuntimeError", "operation timed out", "", CategoryTimeout},
		{"connection refused", "OSError", "connection refused by host", "", CategoryConnection},
		{"fixture setup", "RuntimeError", "fixture database failed", "", CategorySetupTeardown},
		{"invalid argument", "IllegalArgumentException", "", "", CategoryInvalidState},
		{"value error", "ValueError", "bad literal", "", CategoryInvalidState},
		{"fallthrough", "KeyError", "missing entry", "", CategoryOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Categorize(tt.excType, tt.message, tt.trace))
		})
	}
}

func TestExtractMessage(t *testing.T) {
	t.Run("pytest marker beats xml attribute", func(t *testing.T) {
		got := ExtractMessage("assertion failed", pytestTrace, "AssertionError")
		assert.Equal(t, "AssertionError: expected 5 but got 3", got)
	})

	t.Run("type-colon line", func(t *testing.T) {
		got := ExtractMessage("", javaTrace, "NullPointerException")
		assert.Equal(t, "java.lang.NullPointerException: Cannot invoke method on null object", got)
	})

	t.Run("xml attribute fallback", func(t *testing.T) {
		assert.Equal(t, "boom", ExtractMessage("boom", "", "RuntimeError"))
	})

	t.Run("first trace line fallback", func(t *testing.T) {
		assert.Equal(t, "something odd", ExtractMessage("", "\nsomething odd\nmore", "RuntimeError"))
	})

	t.Run("type as last resort", func(t *testing.T) {
		assert.Equal(t, "RuntimeError", ExtractMessage("", "", "RuntimeError"))
	})
}
