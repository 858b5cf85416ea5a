// Package markdown converts markdown content bodies to HTML with goldmark and
// splits YAML frontmatter from template files.
package markdown
