package keyring

import (
	"errors"
	"testing"

	gokeyring "github.com/zalando/go-keyring"
)

func TestSetAndGet(t *testing.T) {
	gokeyring.MockInit()

	want := "postgres://gm@localhost:5432/questlog?sslmode=disable"
	if err := Set(ConnectionString, want); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}

	got, err := GetConnectionString()
	if err != nil {
		t.Fatalf("GetConnectionString() failed: %v", err)
	}
	if got != want {
		t.Errorf("GetConnectionString() = %q, want %q", got, want)
	}

	if _, err := Get(S3SecretKey); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(S3SecretKey) error = %v, want ErrNotFound", err)
	}
}

func TestSetEmpty(t *testing.T) {
	gokeyring.MockInit()

	if err := Set(ConnectionString, ""); err == nil {
		t.Error("Set with an empty value should return an error")
	}
}

func TestDelete(t *testing.T) {
	gokeyring.MockInit()

	if err := Set(S3SecretKey, "secret"); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}
	if err := Delete(S3SecretKey); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}
	if _, err := Get(S3SecretKey); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after Delete error = %v, want ErrNotFound", err)
	}
	if err := Delete(S3SecretKey); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete error = %v, want ErrNotFound", err)
	}
}

func TestParseEntry(t *testing.T) {
	tests := []struct {
		name    string
		want    Entry
		wantErr bool
	}{
		{"database-connection", ConnectionString, false},
		{" S3-Secret-Key ", S3SecretKey, false},
		{"password", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseEntry(tt.name)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseEntry() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseEntry() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIsAvailable(t *testing.T) {
	gokeyring.MockInit()

	if !IsAvailable() {
		t.Error("mock keyring should be available")
	}
}
