package preview

import (
	"context"
	"io"
	"regexp"
	"strings"

	"github.com/a-h/templ"
)

var unsafeClassRegex = regexp.MustCompile(`[^A-Za-z0-9_-]`)

// Stylesheet renders the recommended stylesheet as a <style> element with
// id StyleID.
func Stylesheet(c Classes) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, `<style id="`+StyleID+`">`+CSS(c)+`</style>`)
		return err
	})
}

// CSS returns the recommended rules for the given class names. Characters
// that are not valid in a plain class name are dropped.
func CSS(c Classes) string {
	errClass := cssClass(c.Error)
	span := cssClass(c.ErrorSpan)
	bar := cssClass(c.ProgressBar)
	prev := cssClass(c.Preview)

	var b strings.Builder
	b.WriteString(errClass + "{border-color:#ffb7af!important;outline:none;}")
	b.WriteString(span + "{color:#e74c3c;font-size:13px;display:block;margin-top:3px;font-family:sans-serif;animation:fadeIn .3s;}")
	b.WriteString("@keyframes fadeIn{from{opacity:0}to{opacity:1}}")
	b.WriteString(bar + "{width:100%;height:6px;background:#eee;border-radius:3px;margin-top:5px;overflow:hidden;position:relative;}")
	b.WriteString(bar + " div{height:100%;width:0%;background:linear-gradient(90deg,#00c6ff,#0072ff);transition:width .3s;position:absolute;top:0;left:0;}")
	b.WriteString(prev + "{display:inline-block;margin:6px 6px 0 0;font-size:12px;color:#555;border:1px solid #ddd;padding:8px;border-radius:4px;max-width:150px;font-family:sans-serif;position:relative;vertical-align:top;}")
	b.WriteString(prev + " img{max-width:100%;border-radius:4px;display:block;margin-bottom:4px;}")
	b.WriteString(prev + " .file-name{word-break:break-all;font-size:11px;}")
	b.WriteString(prev + " .remove-file{position:absolute;top:2px;right:2px;background:#e74c3c;color:#fff;border:none;border-radius:50%;width:20px;height:20px;cursor:pointer;font-size:12px;line-height:1;padding:0;}")
	b.WriteString(".file-previews-container{display:block;margin-top:5px;}")
	return b.String()
}

func cssClass(name string) string {
	return "." + unsafeClassRegex.ReplaceAllString(name, "")
}
