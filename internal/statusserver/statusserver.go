// Package statusserver implements nswing's no-argument status page:
// a tiny gobra-routed HTTP server showing run progress and the current
// quicklook heatmap, with live updates pushed over a websocket. This is
// grounded in the teacher's (*Cfg).StartWebServer in inmaputil/cmd.go,
// which wires github.com/ctessum/gobra onto a cobra command tree and
// opens the default browser with github.com/skratchdot/open-golang.
package statusserver

import (
	"bytes"
	"html/template"
	"net/http"
	"sync"
	"time"

	"github.com/ctessum/gobra"
	"github.com/ctessum/sparse"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"github.com/skratchdot/open-golang/open"
	"github.com/spf13/cobra"

	"github.com/nswing/nswing/internal/quicklook"
)

// Status is one progress snapshot pushed by the running solver.
type Status struct {
	Cycle      int     `json:"cycle"`
	NCycles    int     `json:"nCycles"`
	SimTime    float64 `json:"simTime"`
	MaxEta     float64 `json:"maxEta"`
	Done       bool    `json:"done"`
	Err        string  `json:"err,omitempty"`
}

// Server serves the live status page and exposes a channel the solver
// pushes Status and grid snapshots through.
type Server struct {
	Address string

	mu     sync.Mutex
	status Status
	grid   *sparse.DenseArray

	upgrader websocket.Upgrader
}

// New builds a Server bound to address (e.g. "localhost:7171").
func New(address string) *Server {
	return &Server{
		Address:  address,
		upgrader: websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }},
	}
}

// Publish records the latest progress snapshot and grid, visible to the
// next page load or websocket tick.
func (s *Server) Publish(st Status, grid *sparse.DenseArray) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = st
	s.grid = grid
}

var pageTemplate = template.Must(template.New("status").Parse(`<!DOCTYPE html>
<html><head><title>nswing</title></head>
<body>
<h3>nswing run status</h3>
<div id="status">cycle {{.Cycle}} / {{.NCycles}}, t = {{.SimTime}}s, max &eta; = {{.MaxEta}}</div>
<img id="heatmap" src="/heatmap.png" style="max-width:100%">
<script>
var ws = new WebSocket("ws://" + location.host + "/ws");
ws.onmessage = function(ev) {
  var s = JSON.parse(ev.data);
  document.getElementById("status").textContent =
    "cycle " + s.cycle + " / " + s.nCycles + ", t = " + s.simTime + "s, max eta = " + s.maxEta;
  document.getElementById("heatmap").src = "/heatmap.png?" + Date.now();
};
</script>
</body></html>`))

// Start registers the status routes on a gobra.Server built around root
// (so the same command tree that parses flags also serves the GUI, per
// the teacher's pattern), opens the user's browser, and blocks serving.
func (s *Server) Start(root *cobra.Command) error {
	http.HandleFunc("/", s.handleIndex)
	http.HandleFunc("/heatmap.png", s.handleHeatmap)
	http.HandleFunc("/ws", s.handleWS)

	server := gobra.Server{
		Root:          root,
		ServerAddress: s.Address,
		AllowCORS:     false,
	}

	logrus.WithField("address", s.Address).Info("nswing: status server starting")
	if err := open.Run("http://" + s.Address); err != nil {
		logrus.WithError(err).Warn("nswing: could not open browser automatically")
		logrus.Infof("If not opened automatically, please visit http://%s", s.Address)
	}
	return server.Start()
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	st := s.status
	s.mu.Unlock()
	if err := pageTemplate.Execute(w, st); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) handleHeatmap(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	grid := s.grid
	s.mu.Unlock()
	if grid == nil {
		http.Error(w, "no data yet", http.StatusServiceUnavailable)
		return
	}
	var buf bytes.Buffer
	if err := quicklook.RenderHeatmap(grid, nil, &buf); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Write(buf.Bytes())
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()
	for range ticker.C {
		s.mu.Lock()
		st := s.status
		s.mu.Unlock()
		if err := conn.WriteJSON(st); err != nil {
			return
		}
		if st.Done {
			return
		}
	}
}
