// Package httpapi serves the clock status, frame previews and a JSON command
// endpoint over HTTP.
package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/tidwall/gjson"
	"golang.org/x/image/draw"

	"github.com/fkcurrie/xclock-led-golang/internal/logger"
	"github.com/fkcurrie/xclock-led-golang/internal/types"
)

const (
	writeWait    = 2 * time.Second
	jpegQuality  = 95
	maxBodyBytes = 64 << 10
	boundary     = "frame"
)

// Source is the display state the server exposes.
type Source interface {
	Status() types.Status
	// Frame returns the latest frame or nil before the first one.
	Frame() *image.RGBA
	Period() time.Duration
}

// Dispatcher applies a named wire command.
type Dispatcher interface {
	Dispatch(name string, args []any) error
}

// Server is the HTTP front end.
type Server struct {
	source   Source
	commands Dispatcher
	scale    int
	log      *logger.Logger
	upgrader websocket.Upgrader
}

// NewServer creates a server. Previews are scaled by scale with
// nearest-neighbour sampling.
func NewServer(source Source, commands Dispatcher, scale int, log *logger.Logger) *Server {
	if scale <= 0 {
		scale = 1
	}
	return &Server{
		source:   source,
		commands: commands,
		scale:    scale,
		log:      log,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	mux.HandleFunc("/status", s.handleStatus)
	mux.HandleFunc("/preview", s.handlePreview)
	mux.HandleFunc("/stream", s.handleStream)
	mux.HandleFunc("/ws", s.handleWebsocket)
	mux.HandleFunc("/command", s.handleCommand)
	return cors(mux)
}

// Start serves on addr until ctx is cancelled.
func (s *Server) Start(ctx context.Context, addr string) error {
	server := &http.Server{
		Addr:    addr,
		Handler: s.Handler(),
	}

	errc := make(chan error, 1)
	go func() {
		s.log.Info("HTTP server started on %s", addr)
		errc <- server.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return fmt.Errorf("HTTP server error: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down HTTP server: %w", err)
	}
	s.log.Info("HTTP server stopped")
	return ctx.Err()
}

func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "*")
		h.Set("Access-Control-Allow-Headers", "*")
		h.Set("Access-Control-Expose-Headers", "*")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, s.source.Status())
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	frame := s.source.Frame()
	if frame == nil {
		http.Error(w, "No image available yet", http.StatusNotFound)
		return
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, s.scaled(frame)); err != nil {
		s.log.Error("Failed to encode preview: %v", err)
		http.Error(w, "encoding failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.Write(buf.Bytes())
}

// handleStream sends an MJPEG stream at the frame period until the client
// goes away.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "multipart/x-mixed-replace; boundary="+boundary)
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	var buf bytes.Buffer
	for {
		if frame := s.source.Frame(); frame != nil {
			buf.Reset()
			if err := jpeg.Encode(&buf, s.scaled(frame), &jpeg.Options{Quality: jpegQuality}); err != nil {
				s.log.Error("Failed to encode stream frame: %v", err)
				return
			}
			if err := writePart(w, buf.Bytes()); err != nil {
				return
			}
			flusher.Flush()
		}
		select {
		case <-r.Context().Done():
			return
		case <-time.After(s.source.Period()):
		}
	}
}

func writePart(w io.Writer, jpg []byte) error {
	if _, err := fmt.Fprintf(w, "--%s\r\nContent-Type: image/jpeg\r\nContent-Length: %d\r\n\r\n", boundary, len(jpg)); err != nil {
		return err
	}
	if _, err := w.Write(jpg); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\r\n")
	return err
}

// handleWebsocket pushes a binary PNG message per frame.
func (s *Server) handleWebsocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("Websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	// Reads only detect the close; clients have nothing to say.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	var buf bytes.Buffer
	for {
		if frame := s.source.Frame(); frame != nil {
			buf.Reset()
			if err := png.Encode(&buf, s.scaled(frame)); err != nil {
				s.log.Error("Failed to encode websocket frame: %v", err)
				return
			}
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.BinaryMessage, buf.Bytes()); err != nil {
				s.log.Debug("Websocket client gone: %v", err)
				return
			}
		}
		select {
		case <-closed:
			return
		case <-r.Context().Done():
			return
		case <-time.After(s.source.Period()):
		}
	}
}

type commandReply struct {
	Status  string `json:"status"`
	Command string `json:"command,omitempty"`
	Args    []any  `json:"args,omitempty"`
	Message string `json:"message,omitempty"`
}

// handleCommand accepts {"command": name, "args": [...]}.
func (s *Server) handleCommand(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, commandReply{Status: "error", Message: err.Error()})
		return
	}
	if !gjson.ValidBytes(body) {
		writeJSON(w, http.StatusBadRequest, commandReply{Status: "error", Message: "invalid JSON"})
		return
	}

	name := gjson.GetBytes(body, "command").String()
	if name == "" {
		writeJSON(w, http.StatusBadRequest, commandReply{Status: "error", Message: "No command specified"})
		return
	}
	args := []any{}
	if a := gjson.GetBytes(body, "args"); a.Exists() {
		if !a.IsArray() {
			writeJSON(w, http.StatusBadRequest, commandReply{Status: "error", Message: "args must be an array"})
			return
		}
		for _, v := range a.Array() {
			args = append(args, v.Value())
		}
	}

	if err := s.commands.Dispatch(name, args); err != nil {
		writeJSON(w, http.StatusBadRequest, commandReply{Status: "error", Command: name, Message: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, commandReply{Status: "ok", Command: name, Args: args})
}

func (s *Server) scaled(frame *image.RGBA) *image.RGBA {
	if s.scale == 1 {
		return frame
	}
	b := frame.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx()*s.scale, b.Dy()*s.scale))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), frame, b, draw.Src, nil)
	return dst
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}
