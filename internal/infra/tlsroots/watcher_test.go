package tlsroots

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestNewWatcher(t *testing.T) {
	ca := newTestCA(t)
	certFile, keyFile := ca.writePair(t, t.TempDir(), "one")

	w, err := NewWatcher(certFile, keyFile)
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	defer w.Stop()

	cert, err := w.GetCertificate(nil)
	if err != nil || cert == nil {
		t.Fatalf("GetCertificate() = %v, %v", cert, err)
	}
	if cert.Leaf == nil || cert.Leaf.Subject.CommonName != "one" {
		t.Errorf("leaf = %+v", cert.Leaf)
	}
	if w.NotAfter().Before(time.Now()) {
		t.Errorf("NotAfter() = %v", w.NotAfter())
	}
}

func TestNewWatcher_Invalid(t *testing.T) {
	dir := t.TempDir()
	certFile := filepath.Join(dir, "server.crt")
	keyFile := filepath.Join(dir, "server.key")
	os.WriteFile(certFile, []byte("invalid"), 0o644)
	os.WriteFile(keyFile, []byte("invalid"), 0o600)

	if _, err := NewWatcher(certFile, keyFile); err == nil {
		t.Error("NewWatcher() expected error for invalid pair")
	}
	if _, err := NewWatcher("/nonexistent/cert.pem", "/nonexistent/key.pem"); err == nil {
		t.Error("NewWatcher() expected error for missing files")
	}
}

func TestWatcher_Reload(t *testing.T) {
	ca := newTestCA(t)
	dir := t.TempDir()
	certFile, keyFile := ca.writePair(t, dir, "one")

	reloaded := make(chan struct{}, 4)
	w, err := NewWatcher(certFile, keyFile,
		WithDebounce(20*time.Millisecond),
		OnReload(func() { reloaded <- struct{}{} }),
	)
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	w.StartAsync()
	defer w.Stop()
	time.Sleep(50 * time.Millisecond)

	ca.writePair(t, dir, "two")

	deadline := time.After(5 * time.Second)
	for {
		select {
		case <-reloaded:
		case <-deadline:
			t.Fatal("certificate was not reloaded")
		}
		cert, _ := w.GetCertificate(nil)
		if cert.Leaf != nil && cert.Leaf.Subject.CommonName == "two" {
			return
		}
	}
}

func TestWatcher_KeepsCertOnBadReload(t *testing.T) {
	ca := newTestCA(t)
	dir := t.TempDir()
	certFile, keyFile := ca.writePair(t, dir, "one")

	w, err := NewWatcher(certFile, keyFile, WithDebounce(10*time.Millisecond))
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	w.StartAsync()
	defer w.Stop()

	os.WriteFile(certFile, []byte("broken"), 0o644)
	time.Sleep(200 * time.Millisecond)

	cert, _ := w.GetCertificate(nil)
	if cert == nil || cert.Leaf.Subject.CommonName != "one" {
		t.Error("a failed reload should keep the previous certificate")
	}
}

func TestWatcher_StopTwice(t *testing.T) {
	ca := newTestCA(t)
	certFile, keyFile := ca.writePair(t, t.TempDir(), "one")
	w, err := NewWatcher(certFile, keyFile)
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	if err := w.Stop(); err != nil {
		t.Errorf("Stop() error = %v", err)
	}
	if err := w.Stop(); err != nil {
		t.Errorf("second Stop() error = %v", err)
	}
}
