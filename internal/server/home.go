package server

import (
	"html/template"
	"net/http"
)

// homeTmpl is the single server-rendered page. Signed-out visitors get
// a Google sign-in link, signed-in users a one-click meeting form that
// calls POST /api/meetings.
var homeTmpl = template.Must(template.New("home").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>InstaMeet</title>
  <style>
    body { font-family: system-ui, sans-serif; max-width: 32rem; margin: 4rem auto; padding: 0 1rem; }
    button, .btn { font-size: 1rem; padding: 0.5rem 1rem; cursor: pointer; }
    #result a { word-break: break-all; }
    .error { color: #b00020; }
  </style>
</head>
<body>
  <h1>InstaMeet</h1>
{{if .SignedIn}}
  <p>Signed in as <strong>{{.Name}}</strong>.</p>
  <p><button id="create">Create Google Meet</button></p>
  <p id="result"></p>
  <form method="post" action="/api/auth/signout">
    <button type="submit">Sign out</button>
  </form>
  <script>
    document.getElementById("create").addEventListener("click", async () => {
      const result = document.getElementById("result");
      result.textContent = "Creating meeting...";
      result.className = "";
      try {
        const resp = await fetch("/api/meetings", { method: "POST" });
        const body = await resp.json();
        if (!resp.ok) {
          throw new Error(body.error || resp.statusText);
        }
        result.innerHTML = "";
        const link = document.createElement("a");
        link.href = body.meetingLink;
        link.textContent = body.meetingLink;
        result.appendChild(link);
      } catch (err) {
        result.textContent = "Failed to create meeting: " + err.message;
        result.className = "error";
      }
    });
  </script>
{{else}}
  <p>Create instant Google Meet links from your calendar.</p>
  <p><a class="btn" href="/api/auth/signin?callbackUrl=%2Fhome">Sign in with Google</a></p>
{{end}}
</body>
</html>
`))

type homeView struct {
	SignedIn bool
	Name     string
}

// handleHome renders the landing page. It never errors on a missing or
// invalid session, it just renders the signed-out variant.
func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	view := homeView{}
	if sess, err := s.cfg.Sessions.FromRequest(r); err == nil {
		view.SignedIn = true
		view.Name = sess.Name
		if view.Name == "" {
			view.Name = sess.UserID
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := homeTmpl.Execute(w, view); err != nil {
		s.logger.Error("failed to render home page", "error", err)
	}
}
