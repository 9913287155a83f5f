package templates

import (
	"fmt"
	"html"
	"strings"
)

// RenderEmail generates branded HTML for a marketplace notification.
// body is plain text; it is escaped and newlines become <br>. When link is
// set a call-to-action button pointing at it is added under the body.
func RenderEmail(subject, body, link, linkText string) string {
	safeSubject := html.EscapeString(subject)
	htmlBody := strings.ReplaceAll(html.EscapeString(body), "\n", "<br>")

	button := ""
	if link != "" {
		if linkText == "" {
			linkText = "Open LexMatch"
		}
		button = fmt.Sprintf(`<p class="cta"><a href="%s">%s</a></p>`, html.EscapeString(link), html.EscapeString(linkText))
	}

	return fmt.Sprintf(`<!DOCTYPE html PUBLIC "-//W3C//DTD XHTML 1.0 Strict//EN" "http://www.w3.org/TR/xhtml1/DTD/xhtml1-strict.dtd">
<html xmlns="http://www.w3.org/1999/xhtml">
<head>
  <meta http-equiv="Content-Type" content="text/html; charset=utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1, minimum-scale=1, maximum-scale=1">
  <title>%s</title>
  <style type="text/css">
    body { font-family: 'Inter', 'Segoe UI', Helvetica, Arial, sans-serif; margin: 0; padding: 0; background-color: #f8fafc; }
    .container { max-width: 600px; margin: 0 auto; background-color: #ffffff; border: 1px solid #e2e8f0; }
    .header { background-color: #0f172a; padding: 32px 30px; text-align: left; }
    .header span { color: #818cf8; font-size: 13px; font-weight: 700; letter-spacing: 2px; text-transform: uppercase; }
    .header h1 { color: #fff; margin: 8px 0 0; font-size: 22px; font-weight: 700; }
    .content { padding: 32px 30px; color: #334155; line-height: 1.6; font-size: 15px; }
    .cta a { display: inline-block; margin-top: 16px; padding: 12px 22px; background-color: #4f46e5; color: #fff; border-radius: 8px; text-decoration: none; font-weight: 600; }
    .footer { padding: 24px 30px; color: #94a3b8; font-size: 12px; border-top: 1px solid #e2e8f0; }
  </style>
</head>
<body>
  <div class="container">
    <div class="header">
      <span>LexMatch</span>
      <h1>%s</h1>
    </div>
    <div class="content">
      %s
      %s
    </div>
    <div class="footer">
      <p>&copy; LexMatch. Legal help for startups, matched and escrowed.</p>
    </div>
  </div>
</body>
</html>`, safeSubject, safeSubject, htmlBody, button)
}
