package tui

import (
	"bytes"
	"io"
	"net"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"

	"github.com/vovakirdan/tui-flappy/internal/audio"
	"github.com/vovakirdan/tui-flappy/internal/core"
	"github.com/vovakirdan/tui-flappy/internal/storage"
)

// fakeSession is the part of an SSH session the handlers touch. Calling
// anything else panics on the nil embedded Session.
type fakeSession struct {
	ssh.Session
	user   string
	pty    *ssh.Pty
	stderr bytes.Buffer
	exit   int
	closed bool
}

func (s *fakeSession) User() string { return s.user }
func (s *fakeSession) RemoteAddr() net.Addr {
	return &net.TCPAddr{IP: net.IPv4(10, 0, 0, 7), Port: 5022}
}
func (s *fakeSession) Stderr() io.ReadWriter { return &s.stderr }
func (s *fakeSession) Exit(code int) error   { s.exit = code; return nil }
func (s *fakeSession) Close() error          { s.closed = true; return nil }
func (s *fakeSession) Pty() (ssh.Pty, <-chan ssh.Window, bool) {
	if s.pty == nil {
		return ssh.Pty{}, nil, false
	}
	return *s.pty, nil, true
}

func newTestSSHServer(t *testing.T, store *storage.Store) *SSHServer {
	t.Helper()
	return &SSHServer{
		config: SSHServerConfig{Address: ":0", GameID: fakeID, TickRate: 60},
		store:  store,
		logger: log.New(io.Discard),
	}
}

func TestTeaHandlerRejectsSessionWithoutPty(t *testing.T) {
	resetFakes(t)
	srv := newTestSSHServer(t, nil)
	sess := &fakeSession{user: "alice"}

	model, opts := srv.teaHandler(sess)
	if model != nil || opts != nil {
		t.Fatalf("teaHandler() = %v, %v; want no program", model, opts)
	}
	if !strings.Contains(sess.stderr.String(), "interactive terminal") {
		t.Errorf("stderr = %q", sess.stderr.String())
	}
	if sess.exit != 1 || !sess.closed {
		t.Errorf("exit = %d, closed = %v; want 1, true", sess.exit, sess.closed)
	}
	if len(fakeGames) != 0 {
		t.Errorf("a scene was built for a session without a terminal")
	}
}

func TestTeaHandlerBuildsSilentScenePerSession(t *testing.T) {
	resetFakes(t)
	srv := newTestSSHServer(t, nil)

	var models []Model
	for _, user := range []string{"alice", "bob"} {
		sess := &fakeSession{user: user, pty: &ssh.Pty{Window: ssh.Window{Width: 30, Height: 10}}}
		tm, opts := srv.teaHandler(sess)
		if tm == nil || len(opts) == 0 {
			t.Fatalf("teaHandler(%s) returned no program: %s", user, sess.stderr.String())
		}
		models = append(models, tm.(Model))
	}

	if len(fakeGames) != 2 {
		t.Fatalf("expected one scene per session, got %d", len(fakeGames))
	}
	for i, m := range models {
		if _, ok := m.opts.Env.Music.(audio.Silent); !ok {
			t.Errorf("session %d music = %T, want audio.Silent", i, m.opts.Env.Music)
		}
	}
	if models[0].opts.Player != "alice" || models[1].opts.Player != "bob" {
		t.Errorf("players = %q, %q", models[0].opts.Player, models[1].opts.Player)
	}
	if cfg := fakeGames[0].cfg; cfg.ScreenW != 30 || cfg.ScreenH != 9 {
		t.Errorf("frame = %dx%d, want 30x9", cfg.ScreenW, cfg.ScreenH)
	}
}

func TestSessionScoreRecordsUser(t *testing.T) {
	resetFakes(t)
	store, err := storage.Open(filepath.Join(t.TempDir(), "scores.db"))
	if err != nil {
		t.Fatalf("storage.Open() failed: %v", err)
	}
	defer store.Close()
	srv := newTestSSHServer(t, store)

	sess := &fakeSession{user: "carol", pty: &ssh.Pty{Window: ssh.Window{Width: 30, Height: 10}}}
	tm, _ := srv.teaHandler(sess)
	m := tm.(Model)

	fakeGames[0].state = core.GameState{Score: 4, GameOver: true}
	send(t, m, TickMsg{})

	scores, err := store.TopScores(fakeID, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(scores) != 1 || scores[0].Player != "carol" || scores[0].Score != 4 {
		t.Errorf("scores = %+v, want one run of 4 by carol", scores)
	}
}

func TestLoggingMiddlewareWrapsSession(t *testing.T) {
	var buf bytes.Buffer
	srv := newTestSSHServer(t, nil)
	srv.logger = log.New(&buf)

	called := false
	handler := srv.loggingMiddleware(func(ssh.Session) { called = true })
	handler(&fakeSession{user: "dave"})

	if !called {
		t.Fatal("middleware did not call the next handler")
	}
	out := buf.String()
	if !strings.Contains(out, "session started") || !strings.Contains(out, "session ended") {
		t.Errorf("log = %q", out)
	}
	if !strings.Contains(out, "dave") {
		t.Errorf("log does not name the user: %q", out)
	}
}

func TestNewSSHServer(t *testing.T) {
	dir := t.TempDir()
	cfg := DefaultSSHServerConfig()
	cfg.Address = "127.0.0.1:0"
	cfg.HostKeyPath = filepath.Join(dir, "keys", "host_key")
	cfg.DBPath = filepath.Join(dir, "scores.db")
	cfg.GameID = fakeID
	cfg.Logger = log.New(io.Discard)

	srv, err := NewSSHServer(cfg)
	if err != nil {
		t.Fatalf("NewSSHServer() failed: %v", err)
	}
	defer srv.closeStore()

	if srv.Addr() != "127.0.0.1:0" {
		t.Errorf("Addr() = %q", srv.Addr())
	}
	if srv.store == nil || srv.textures == nil {
		t.Error("server should open the store and default textures")
	}

	cfg.GameID = "no-such-game"
	if _, err := NewSSHServer(cfg); err == nil {
		t.Error("unknown game should be rejected")
	}
}
