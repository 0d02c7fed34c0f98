package dashboard

import (
	"fmt"
	"strings"
)

// htmlHead returns the HTML head with the shared styles and, when set, the custom stylesheet.
// A positive refreshSeconds reloads the page on that interval.
func htmlHead(title, customCSS string, refreshSeconds int) string {
	refresh := ""
	if refreshSeconds > 0 {
		refresh = fmt.Sprintf(`
	<meta http-equiv="refresh" content="%d">`, refreshSeconds)
	}

	custom := ""
	if customCSS != "" {
		custom = pageCSS(customCSS)
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
	<meta charset="UTF-8">
	<meta name="viewport" content="width=device-width, initial-scale=1.0">%s
	<title>%s</title>
	%s
	%s
</head>`, refresh, escapeHTML(title), commonCSS(), custom)
}

// commonCSS returns the built-in wall styles.
func commonCSS() string {
	return `<style>
		:root {
			--bg-primary: #111;
			--text-primary: #eee;
			--text-secondary: #aaa;
			--fresh: #2e7d32;
			--aging: #f9a825;
			--old: #c62828;
			--failed-bg: #b71c1c;
		}
		[data-theme="light"] {
			--bg-primary: #f5f5f5;
			--text-primary: #222;
			--text-secondary: #555;
		}
		body { font-family: system-ui, -apple-system, sans-serif; margin: 0; padding: 10px; background: var(--bg-primary); color: var(--text-primary); }
		#all-quiet { font-size: 4em; text-align: center; margin-top: 20%; color: var(--text-secondary); }
		ul#pulls { list-style: none; margin: 0; padding: 0; }
		ul#pulls li { border-left: 12px solid var(--fresh); padding: 6px 12px; margin-bottom: 6px; overflow: hidden; }
		ul#pulls li.age-aging { border-left-color: var(--aging); }
		ul#pulls li.age-old { border-left-color: var(--old); }
		ul#pulls li.master { background: var(--failed-bg); border-left-color: var(--failed-bg); }
		ul#pulls li.unimportant-user, ul#pulls li.unimportant-repo { opacity: 0.6; }
		ul#pulls li.wip { font-size: 0.6em; opacity: 0.5; }
		ul#pulls li.under-review .pr-url { font-style: italic; }
		.avatar { float: left; width: 48px; height: 48px; margin-right: 12px; }
		.repo-name { margin: 0; font-size: 1.2em; }
		.status { float: right; margin: 0 0 0 12px; }
		.status.failure, .status.error, .status.not-mergeable { color: var(--old); }
		.status.pending { color: var(--aging); }
		.status.success { color: var(--fresh); }
		.elapsed-time { float: right; color: var(--text-secondary); }
		.pr-url a { color: var(--text-primary); text-decoration: none; }
		.username { font-weight: bold; }
		.review-marker { margin-right: 8px; }
		.theme-toggle { position: fixed; bottom: 8px; right: 8px; background: none; border: 1px solid var(--text-secondary); color: var(--text-secondary); cursor: pointer; }
	</style>`
}

// themeToggleScript returns the theme toggle JavaScript.
func themeToggleScript() string {
	return `<script>
		function toggleTheme() {
			const html = document.documentElement;
			const newTheme = html.getAttribute('data-theme') === 'light' ? 'dark' : 'light';
			html.setAttribute('data-theme', newTheme);
			localStorage.setItem('theme', newTheme);
		}
		(function() {
			document.documentElement.setAttribute('data-theme', localStorage.getItem('theme') || 'dark');
		})();
	</script>`
}

// changeReloadScript reloads the page when the server reports new items or styles.
func changeReloadScript() string {
	return `<script>
		if (window.EventSource) {
			const events = new EventSource('/api/events');
			events.addEventListener('change', function(e) {
				const fields = JSON.parse(e.data).fields || [];
				if (fields.includes('items') || fields.includes('stylesheet')) {
					window.location.reload();
				}
			});
		}
	</script>`
}

// htmlFooter returns the closing part of a page.
func htmlFooter() string {
	return `
	<button class="theme-toggle" onclick="toggleTheme()" aria-label="Toggle theme">theme</button>` + themeToggleScript() + changeReloadScript() + `
</body>
</html>`
}

// escapeHTML escapes special HTML characters to prevent XSS.
func escapeHTML(s string) string {
	replacer := strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"'", "&#39;",
	)
	return replacer.Replace(s)
}

// externalLink creates a safe link with the given inner HTML.
func externalLink(url, innerHTML string) string {
	return fmt.Sprintf(`<a href="%s" target="_blank" rel="noopener noreferrer">%s</a>`, escapeHTML(url), innerHTML)
}

// pageCSS wraps styles in a style element. "<" is written as a CSS escape so the
// styles can't close the element.
func pageCSS(styles string) string {
	return fmt.Sprintf("<style>%s</style>", strings.ReplaceAll(styles, "<", `\3c `))
}
