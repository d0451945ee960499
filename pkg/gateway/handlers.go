package gateway

import (
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/luckyonesl/frigate-mqtt-pricure-viewer/pkg/metrics"
)

const indexHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8"/>
    <title>Camera Snapshots</title>
    <style>
      body { font-family: Arial, sans-serif; margin: 1rem; }
      .meta { margin-top: 0.5rem; color: #666; }
      .grid { display: flex; flex-wrap: wrap; gap: 1rem; }
      figure { margin: 0; }
      img { max-width: 100%; height: auto; border: 1px solid #ccc; }
    </style>
  </head>
  <body>
    <h1>Camera Snapshots</h1>
    {{- if not .Cameras}}
    <p class="meta">No snapshots received yet on <code>{{.Pattern}}</code>.</p>
    {{- end}}
    <div class="grid">
      {{- range .Cameras}}
      <figure>
        <img class="snapshot" data-path="{{.Path}}" src="{{.Path}}?ts={{.TS}}" alt="{{.Key}}"/>
        <figcaption class="meta"><code>{{.Key}}</code> updated {{.ReceivedAt}}</figcaption>
      </figure>
      {{- end}}
    </div>
    <script>
      // periodic reload by changing a cache-busting query string
      const refreshMs = {{.RefreshMillis}};
      setInterval(() => {
        const now = Date.now();
        document.querySelectorAll('img.snapshot').forEach((img) => {
          img.src = img.dataset.path + '?ts=' + now;
        });
      }, refreshMs);
    </script>
  </body>
</html>
`

var indexTemplate = template.Must(template.New("index").Parse(indexHTML))

type cameraTile struct {
	Key        string
	Path       string
	ReceivedAt string
	TS         int64
}

type indexData struct {
	Pattern       string
	Cameras       []cameraTile
	RefreshMillis int64
}

func (server *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	keys := server.store.Keys()

	tiles := make([]cameraTile, 0, len(keys))
	for _, key := range keys {
		img, ok := server.store.Get(key)
		if !ok {
			continue
		}
		tiles = append(tiles, cameraTile{
			Key:        key,
			Path:       imagePath(key),
			ReceivedAt: img.ReceivedAt.Format(time.RFC1123),
			TS:         img.ReceivedAt.Unix(),
		})
	}

	data := indexData{
		Pattern:       server.status().Pattern,
		Cameras:       tiles,
		RefreshMillis: server.opts.RefreshInterval.Milliseconds(),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTemplate.Execute(w, data); err != nil {
		log.Error().Err(err).Msg("Unable to render index page")
	}
}

// imagePath escapes each key segment so the key survives the round
// trip through the browser URL.
func imagePath(key string) string {
	segments := strings.Split(key, "/")
	for i, segment := range segments {
		segments[i] = url.PathEscape(segment)
	}
	return "/image/" + strings.Join(segments, "/")
}

func (server *Server) handleImage(w http.ResponseWriter, r *http.Request) {
	key := strings.TrimPrefix(r.URL.Path, "/image/")

	img, ok := server.store.Get(key)
	if !ok {
		writeNotFound(w, fmt.Sprintf("no snapshot received for %q yet", key))
		return
	}

	w.Header().Set("Content-Type", img.ContentType)
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.Header().Set("X-Image-Timestamp", strconv.FormatInt(img.ReceivedAt.Unix(), 10))

	if _, err := w.Write(img.Payload); err != nil {
		log.Debug().Err(err).Str("key", key).Msg("Unable to write image response")
		return
	}
	metrics.SnapshotsServed.Inc()
}

type cameraStatus struct {
	Key         string `json:"key"`
	ReceivedAt  int64  `json:"received_at"`
	SizeBytes   int    `json:"size_bytes"`
	ContentType string `json:"content_type"`
}

type statusResponse struct {
	Broker        string         `json:"broker"`
	Pattern       string         `json:"pattern"`
	State         string         `json:"state"`
	Cameras       int            `json:"cameras"`
	Snapshots     []cameraStatus `json:"snapshots"`
	RefreshMillis int64          `json:"refresh_ms"`
}

func (server *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	broker := server.status()

	keys := server.store.Keys()
	snapshots := make([]cameraStatus, 0, len(keys))
	for _, key := range keys {
		img, ok := server.store.Get(key)
		if !ok {
			continue
		}
		snapshots = append(snapshots, cameraStatus{
			Key:         key,
			ReceivedAt:  img.ReceivedAt.Unix(),
			SizeBytes:   img.Size(),
			ContentType: img.ContentType,
		})
	}

	writeJSON(w, http.StatusOK, statusResponse{
		Broker:        broker.URL,
		Pattern:       broker.Pattern,
		State:         broker.State,
		Cameras:       len(snapshots),
		Snapshots:     snapshots,
		RefreshMillis: server.opts.RefreshInterval.Milliseconds(),
	})
}

func (server *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}
