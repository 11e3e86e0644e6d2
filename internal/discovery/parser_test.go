package discovery

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeSource(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}
	return path
}

func TestParser_FindTestCases_Java(t *testing.T) {
	parser := NewParser()
	testFile := writeSource(t, "UserTest.java", `package com.acme.users;

import org.junit.jupiter.api.Test;
import org.junit.jupiter.params.ParameterizedTest;

class UserTest {

    @Test
    void createsUser() {
    }

    @Test
    @DisplayName("updates a user")
    public void updatesUser() throws Exception {
    }

    @ParameterizedTest
    @ValueSource(strings = {"a", "b"})
    void rejectsName(String name) {
    }

    @org.junit.Test public void legacyStyle() {}

    private User helper() {
        return new User();
    }
}
`)

	testCases, err := parser.FindTestCases(testFile)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := []string{"createsUser", "legacyStyle", "rejectsName", "updatesUser"}
	if !reflect.DeepEqual(testCases, expected) {
		t.Errorf("expected %v, got %v", expected, testCases)
	}
}

func TestParser_FindTestCases_Kotlin(t *testing.T) {
	parser := NewParser()
	testFile := writeSource(t, "PaymentTests.kt", "package com.acme.billing\n\n"+
		"class PaymentTests {\n"+
		"    @Test\n"+
		"    fun `charges the card`() {\n"+
		"    }\n\n"+
		"    @Test\n"+
		"    // flaky on CI\n"+
		"    fun refundsPayment() = runTest {\n"+
		"    }\n\n"+
		"    fun helper() {}\n"+
		"}\n")

	testCases, err := parser.FindTestCases(testFile)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := []string{"charges the card", "refundsPayment"}
	if !reflect.DeepEqual(testCases, expected) {
		t.Errorf("expected %v, got %v", expected, testCases)
	}
}

func TestParser_ClassName(t *testing.T) {
	parser := NewParser()

	t.Run("java package", func(t *testing.T) {
		path := writeSource(t, "UserTest.java", "// header\npackage com.acme.users;\n\nclass UserTest {}\n")
		name, err := parser.ClassName(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if name != "com.acme.users.UserTest" {
			t.Errorf("unexpected class name %s", name)
		}
	})

	t.Run("kotlin package", func(t *testing.T) {
		path := writeSource(t, "PaymentTests.kt", "package com.acme.billing\n\nclass PaymentTests\n")
		name, err := parser.ClassName(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if name != "com.acme.billing.PaymentTests" {
			t.Errorf("unexpected class name %s", name)
		}
	})

	t.Run("default package", func(t *testing.T) {
		path := writeSource(t, "SmokeTest.java", "class SmokeTest {}\n")
		name, err := parser.ClassName(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if name != "SmokeTest" {
			t.Errorf("unexpected class name %s", name)
		}
	})
}

func TestParser_Errors(t *testing.T) {
	parser := NewParser()
	if _, err := parser.FindTestCases("/non/existent/FooTest.java"); err == nil {
		t.Error("expected error for non-existent file")
	}
	if _, err := parser.ClassName("/non/existent/FooTest.java"); err == nil {
		t.Error("expected error for non-existent file")
	}
}
