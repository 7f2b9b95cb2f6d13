package notifier

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	ps "github.com/mitchellh/go-ps"

	"github.com/julianstephens/habitual/internal/constants"
)

type mockProcess struct {
	pid        int
	executable string
}

func (m *mockProcess) Pid() int           { return m.pid }
func (m *mockProcess) PPid() int          { return 0 }
func (m *mockProcess) Executable() string { return m.executable }

func stubConfigDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	old := userConfigDirFunc
	userConfigDirFunc = func() (string, error) { return dir, nil }
	t.Cleanup(func() { userConfigDirFunc = old })
	return dir
}

func stubProcess(t *testing.T, executable string) {
	t.Helper()
	old := findProcessFunc
	findProcessFunc = func(pid int) (ps.Process, error) {
		if executable == "" {
			return nil, nil
		}
		return &mockProcess{pid: pid, executable: executable}, nil
	}
	t.Cleanup(func() { findProcessFunc = old })
}

func TestTrayConfigDir(t *testing.T) {
	configDir := stubConfigDir(t)

	expectedDefault := filepath.Join(configDir, constants.TrayAppIdentifier)
	dir, err := TrayConfigDir()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dir != expectedDefault {
		t.Errorf("expected %s, got %s", expectedDefault, dir)
	}

	if err := os.MkdirAll(expectedDefault, 0755); err != nil {
		t.Fatal(err)
	}
	customDir := "/custom/habitual/dir"
	settings := `{"settings": {"lockfile_dir": "` + customDir + `"}}`
	if err := os.WriteFile(filepath.Join(expectedDefault, "settings.json"), []byte(settings), 0644); err != nil {
		t.Fatal(err)
	}

	dir, err = TrayConfigDir()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dir != customDir {
		t.Errorf("expected %s, got %s", customDir, dir)
	}
}

func TestReadTrayLockfile(t *testing.T) {
	lockfilePath := filepath.Join(t.TempDir(), constants.NotifierLockfileName)

	if _, err := readTrayLockfile(lockfilePath); !errors.Is(err, ErrTrayNotRunning) {
		t.Errorf("expected ErrTrayNotRunning for missing lockfile, got %v", err)
	}

	tests := []struct {
		name       string
		content    string
		executable string
		wantErr    string
	}{
		{"two part format", "8080|12345", "habitual-tray", "malformed"},
		{"garbage", "invalid", "habitual-tray", "malformed"},
		{"empty secret", "8080|12345|", "habitual-tray", "secret"},
		{"empty port", "|12345|s3cret", "habitual-tray", "port"},
		{"port out of range", "70000|12345|s3cret", "habitual-tray", "outside valid range"},
		{"bad pid", "8080|abc|s3cret", "habitual-tray", "process ID"},
		{"process gone", "8080|12345|s3cret", "", "not running"},
		{"wrong executable", "8080|12345|s3cret", "other-app", "is not habitual-tray"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stubProcess(t, tt.executable)
			if err := os.WriteFile(lockfilePath, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}
			_, err := readTrayLockfile(lockfilePath)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}

	t.Run("valid", func(t *testing.T) {
		stubProcess(t, "habitual-tray")
		if err := os.WriteFile(lockfilePath, []byte("8080|12345|s3cret\n"), 0644); err != nil {
			t.Fatal(err)
		}
		lock, err := readTrayLockfile(lockfilePath)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if lock.port != 8080 || lock.secret != "s3cret" {
			t.Errorf("unexpected lock %+v", lock)
		}
	})
}

func TestTrayNotify(t *testing.T) {
	var received trayPayload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Habitual-Secret") != "test-secret" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte("Unauthorized"))
			return
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if received.Text == "fail" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	u, err := url.Parse(server.URL)
	if err != nil {
		t.Fatal(err)
	}
	port := u.Port()

	configDir := stubConfigDir(t)
	stubProcess(t, "habitual-tray")
	trayDir := filepath.Join(configDir, constants.TrayAppIdentifier)
	if err := os.MkdirAll(trayDir, 0755); err != nil {
		t.Fatal(err)
	}
	writeLock := func(secret string) {
		content := port + "|" + strconv.Itoa(os.Getpid()) + "|" + secret
		if err := os.WriteFile(filepath.Join(trayDir, constants.NotifierLockfileName), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}

	tray := NewTray()

	writeLock("test-secret")
	if !tray.Available() {
		t.Error("expected tray to be available")
	}
	if err := tray.Notify(`Reminder: Time to complete your habit "Read"!`); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if received.Text != `Reminder: Time to complete your habit "Read"!` {
		t.Errorf("unexpected text %q", received.Text)
	}
	if received.DurationMs != constants.NotificationDurationMs {
		t.Errorf("expected duration %d, got %d", constants.NotificationDurationMs, received.DurationMs)
	}

	if err := tray.Notify("fail"); err == nil {
		t.Error("expected error for server failure")
	}

	writeLock("wrong-secret")
	if err := tray.Notify("hello"); err == nil || !strings.Contains(err.Error(), "401") {
		t.Errorf("expected unauthorized error, got %v", err)
	}
}
