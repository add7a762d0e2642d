package api

import (
	"net/http"
)

const viewerHTML = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Channel Viz - Event Stream</title>
    <style>
        * { box-sizing: border-box; margin: 0; padding: 0; }
        body {
            font-family: monospace;
            background: #0d1117;
            color: #e6edf3;
            height: 100vh;
            display: flex;
            flex-direction: column;
        }
        header {
            background: #161b22;
            padding: 12px 20px;
            border-bottom: 1px solid #30363d;
            display: flex;
            justify-content: space-between;
            align-items: center;
        }
        header h1 { font-size: 16px; font-weight: normal; }
        #status { padding: 4px 10px; border-radius: 4px; font-size: 12px; }
        #status.connected { background: #1b4332; color: #95d5b2; }
        #status.disconnected { background: #7f1d1d; color: #fca5a5; }
        #status.connecting { background: #78350f; color: #fcd34d; }
        #run {
            background: #161b22;
            padding: 8px 20px;
            border-bottom: 1px solid #30363d;
            font-size: 12px;
            color: #8b949e;
        }
        main { flex: 1; overflow: hidden; display: flex; flex-direction: column; }
        #events { flex: 1; overflow-y: auto; padding: 10px; }
        .event {
            padding: 6px 12px;
            margin-bottom: 4px;
            background: #161b22;
            border-radius: 4px;
            border-left: 3px solid #30363d;
            font-size: 13px;
            display: flex;
            gap: 12px;
            align-items: baseline;
        }
        .event.level-error { border-left-color: #f85149; background: #1c1012; }
        .event.level-warn { border-left-color: #d29922; }
        .event.scope-handoff { border-left-color: #a371f7; }
        .event.scope-synthesis { border-left-color: #3fb950; }
        .event.scope-entity { border-left-color: #58a6ff; }
        .event.scope-publish { border-left-color: #db61a2; }
        .ts { color: #6e7681; font-size: 11px; min-width: 90px; }
        .name { color: #58a6ff; font-weight: bold; min-width: 160px; }
        .id { color: #a371f7; }
        .msg { color: #8b949e; }
        footer {
            background: #161b22;
            padding: 8px 20px;
            border-top: 1px solid #30363d;
            font-size: 11px;
            color: #6e7681;
        }
    </style>
</head>
<body>
    <header>
        <h1>Channel Viz - Event Stream</h1>
        <span id="status" class="disconnected">Disconnected</span>
    </header>
    <div id="run">no timeline loaded</div>
    <main>
        <div id="events"></div>
    </main>
    <footer>
        <span id="count">0</span> events | WebSocket: /events/ws
    </footer>

    <script>
        const eventsDiv = document.getElementById('events');
        const statusEl = document.getElementById('status');
        const countEl = document.getElementById('count');
        const runEl = document.getElementById('run');
        let eventCount = 0;
        let ws = null;
        let reconnectTimer = null;

        function formatTime(ts) {
            try {
                return new Date(ts).toLocaleTimeString('en-US', { hour12: false });
            } catch {
                return ts;
            }
        }

        function renderEvent(e) {
            const div = document.createElement('div');
            const scope = (e.event || '').split('.')[0];
            div.className = 'event level-' + e.level + ' scope-' + scope;

            let idText = '';
            if (e.fields) {
                if (e.fields.entity_id) idText = e.fields.entity_id;
                else if (e.fields.stage_id) idText = e.fields.stage_id;
                else if (e.fields.run_id) idText = e.fields.run_id;
            }

            div.innerHTML =
                '<span class="ts">' + formatTime(e.ts) + '</span>' +
                '<span class="name">' + e.event + '</span>' +
                (idText ? '<span class="id">' + idText + '</span>' : '') +
                (e.msg ? '<span class="msg">' + e.msg + '</span>' : '');

            eventsDiv.appendChild(div);
            eventCount++;
            countEl.textContent = eventCount;
            eventsDiv.scrollTop = eventsDiv.scrollHeight;

            while (eventsDiv.children.length > 500) {
                eventsDiv.removeChild(eventsDiv.firstChild);
            }
        }

        function setStatus(status) {
            statusEl.className = status;
            statusEl.textContent = status.charAt(0).toUpperCase() + status.slice(1);
        }

        function connect() {
            if (ws && ws.readyState === WebSocket.OPEN) return;
            setStatus('connecting');

            const protocol = location.protocol === 'https:' ? 'wss:' : 'ws:';
            ws = new WebSocket(protocol + '//' + location.host + '/events/ws');

            ws.onopen = function() {
                setStatus('connected');
                if (reconnectTimer) { clearTimeout(reconnectTimer); reconnectTimer = null; }
            };
            ws.onmessage = function(msg) {
                try { renderEvent(JSON.parse(msg.data)); } catch (err) {}
            };
            ws.onclose = function() {
                setStatus('disconnected');
                scheduleReconnect();
            };
            ws.onerror = function() { ws.close(); };
        }

        function scheduleReconnect() {
            if (reconnectTimer) return;
            reconnectTimer = setTimeout(function() { reconnectTimer = null; connect(); }, 3000);
        }

        fetch('/timelines')
            .then(function(res) { return res.json(); })
            .then(function(tl) {
                if (tl.run_id) {
                    runEl.textContent = 'run ' + tl.run_id +
                        ' | ' + tl.entities.length + ' entities' +
                        ' | frame end ' + tl.frame_end;
                }
            })
            .catch(function() {});

        connect();
    </script>
</body>
</html>`

// uiHandler serves the event stream viewer page.
func uiHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(viewerHTML))
}
