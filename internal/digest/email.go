package digest

import (
	"html/template"
	"strings"

	"github.com/srushti1125/techdigest/internal/models"
)

// digestTemplate is the HTML email body. Styles are inlined in the head so
// the layout survives most mail clients.
var digestTemplate = template.Must(template.New("digest").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
body{font-family: Arial, sans-serif; line-height: 1.6; color: #333; background-color: #f8f8f8; padding: 20px;}
.container{max-width: 600px; margin: 0 auto; background-color: #fff; padding: 30px; border-radius: 8px; box-shadow: 0 2px 4px rgba(0,0,0,0.1);}
h1{color: #2c3e50; border-bottom: 2px solid #3498db; padding-bottom: 10px; margin-top: 0;}
h2{color: #3498db; margin-top: 30px; font-size: 1.2em;}
.article-item{margin-bottom: 25px; padding-bottom: 15px; border-bottom: 1px solid #eee; overflow: hidden;}
.article-item:last-child{border-bottom: none;}
.article-img{float: right; margin-left: 20px; margin-bottom: 10px; width: 120px; height: 80px; object-fit: cover; border-radius: 4px; border: 1px solid #ddd;}
.article-content{overflow: hidden;}
.article-title a{text-decoration: none; color: #1a0dab; font-size: 1.1em; font-weight: bold; display: block; margin-bottom: 5px;}
.article-title a:hover{text-decoration: underline;}
.article-source{font-size: 0.85em; color: #555; margin-top: 5px;}
.footer{font-size: 0.8em; color: #888; margin-top: 30px; text-align: center; border-top: 1px solid #eee; padding-top: 15px;}
</style>
</head>
<body>
<div class="container">
<h1>Your Tech Digest</h1>
<h2>Highlights from the Last {{.LookbackDays}} Days</h2>
{{range .Articles}}<div class="article-item">
{{if .ImageURL}}<img src="{{.ImageURL}}" alt="" class="article-img" />{{end}}
<div class="article-content">
<div class="article-title"><a href="{{.URL}}" target="_blank">{{.Title}}</a></div>
{{if .Source}}<div class="article-source">Source: {{.Source}}</div>{{end}}
</div>
</div>
{{end}}<div class="footer"><p>Generated by Aggregator Bot</p></div>
</div>
</body>
</html>
`))

type digestData struct {
	LookbackDays int
	Articles     []models.Article
}

// renderDigest produces the HTML body for one user's digest email.
func renderDigest(articles []models.Article, lookbackDays int) (string, error) {
	var b strings.Builder
	err := digestTemplate.Execute(&b, digestData{LookbackDays: lookbackDays, Articles: articles})
	if err != nil {
		return "", err
	}
	return b.String(), nil
}
