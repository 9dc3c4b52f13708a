package templates

import "strings"

// FragmentHeader marks requests from the page script that expect the App
// fragment instead of JSON.
const FragmentHeader = "X-Calypso-Fragment"

const pageCSS = `
body { font-family: system-ui, sans-serif; background: #f5f6fa; margin: 0; }
.container { max-width: 1100px; margin: 2rem auto; padding: 0 1rem; }
.upload-zone { border: 2px dashed #9aa5b1; border-radius: 8px; padding: 2rem; text-align: center; background: #fff; }
.upload-zone.dragover { border-color: #2d7ff9; background: #eef4ff; }
.notification { margin: 1rem 0; padding: .75rem 1rem; border-radius: 6px; white-space: pre-line; transition: opacity .5s; }
.notification.error { background: #fdecea; color: #b3261e; }
.notification.success { background: #e7f6ec; color: #1e7b34; }
.notification.faded { opacity: .5; }
.file-list { list-style: none; padding: 0; }
.file-item { display: flex; gap: 1rem; padding: .4rem 0; border-bottom: 1px solid #e4e7eb; }
.file-name { flex: 1; font-weight: 600; }
.file-meta { color: #616e7c; }
.file-status { color: #1e7b34; }
.controls { display: flex; gap: .75rem; align-items: center; margin: 1rem 0; }
button { padding: .5rem 1rem; border: 0; border-radius: 6px; background: #2d7ff9; color: #fff; cursor: pointer; }
button[disabled] { background: #9aa5b1; cursor: default; }
.loading { color: #616e7c; }
.spinner { display: inline-block; width: 1em; height: 1em; border: 2px solid #9aa5b1; border-top-color: #2d7ff9; border-radius: 50%; animation: spin 1s linear infinite; }
@keyframes spin { to { transform: rotate(360deg); } }
.preview-table { width: 100%; border-collapse: collapse; background: #fff; font-size: .9rem; }
.preview-table th, .preview-table td { padding: .4rem .6rem; border-bottom: 1px solid #e4e7eb; text-align: left; }
.oot-row { background: #fdecea; border-left: 4px solid #d64545; }
.oot-indicator { font-weight: 600; }
.oot-warning { color: #b3261e; }
.oot-ok { color: #1e7b34; }
.preview-info { color: #616e7c; }
.oot-summary { color: #b3261e; font-weight: 600; }
`

const pageJS = `
(function () {
  const app = document.getElementById('app');
  const zone = document.getElementById('upload-zone');
  const input = document.getElementById('file-input');
  const headers = { 'X-Calypso-Fragment': 'true' };

  async function swap(res) {
    app.innerHTML = await res.text();
  }

  async function refresh() {
    const res = await fetch('/view', { headers });
    if (res.ok) { await swap(res); }
  }

  async function select(files, source) {
    const body = new FormData();
    body.append('source', source);
    for (const f of files) {
      body.append('files', f, f.name);
      body.append('modified', String(f.lastModified));
    }
    await swap(await fetch('/select', { method: 'POST', body, headers }));
  }

  async function download() {
    const stats = document.getElementById('include-stats');
    const body = new URLSearchParams({ include_stats: stats && stats.checked ? 'true' : 'false' });
    const res = await fetch('/download', { method: 'POST', body, headers });
    const type = res.headers.get('Content-Type') || '';
    if (res.ok && type.startsWith('text/csv')) {
      const disposition = res.headers.get('Content-Disposition') || '';
      const match = /filename="([^"]+)"/.exec(disposition);
      const url = URL.createObjectURL(await res.blob());
      const a = document.createElement('a');
      a.href = url;
      a.download = match ? match[1] : 'calypso_measurements.csv';
      document.body.appendChild(a);
      a.click();
      a.remove();
      URL.revokeObjectURL(url);
      await refresh();
      return;
    }
    await swap(res);
  }

  zone.addEventListener('dragover', (e) => { e.preventDefault(); zone.classList.add('dragover'); });
  zone.addEventListener('dragleave', () => zone.classList.remove('dragover'));
  zone.addEventListener('drop', (e) => {
    e.preventDefault();
    zone.classList.remove('dragover');
    select(e.dataTransfer.files, 'drop');
  });
  input.addEventListener('change', () => { select(input.files, 'picker'); input.value = ''; });

  app.addEventListener('click', (e) => {
    const btn = e.target.closest('button[data-action]');
    if (!btn || btn.disabled) { return; }
    const action = btn.dataset.action;
    if (action === '/download') { download(); return; }
    const pending = fetch(action, { method: 'POST', headers }).then(swap);
    if (action === '/process') { setTimeout(refresh, 100); }
    pending.catch(() => refresh());
  });

  setInterval(refresh, 1000);
})();
`

func styleTag() string {
	return "<style>" + pageCSS + "</style>"
}

func scriptTag() string {
	return "<script>" + pageJS + "</script>"
}

// messageLines splits a notification message into the lines shown with <br>
// between them.
func messageLines(message string) []string {
	return strings.Split(message, "\n")
}
