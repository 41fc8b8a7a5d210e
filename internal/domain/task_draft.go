package domain

import (
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// TaskDraft represents a task to be created from file input.
// Fields are ordered to minimize memory padding.
type TaskDraft struct {
	DueDate     *time.Time
	Title       string
	Description string
	Priority    Priority
	Status      Status
}

// Edit returns the draft as a TaskEdit, filling in creation defaults.
func (d TaskDraft) Edit() TaskEdit {
	edit := TaskEdit{
		Title:       d.Title,
		Description: d.Description,
		Priority:    d.Priority,
		Status:      d.Status,
		DueDate:     copyTime(d.DueDate),
	}
	if edit.Priority == "" {
		edit.Priority = PriorityMedium
	}
	if edit.Status == "" {
		edit.Status = StatusTodo
	}
	return edit
}

// draftFrontmatter is the YAML header of a single draft block.
type draftFrontmatter struct {
	Title    string `yaml:"title"`
	Priority string `yaml:"priority"`
	Status   string `yaml:"status"`
	Due      string `yaml:"due"`
}

// frontmatterKeys are the keys that mark the start of a new draft block.
var frontmatterKeys = []string{"title:", "priority:", "status:", "due:"}

// ParseTaskDrafts parses a markdown file containing one or more task definitions.
// Tasks are separated by frontmatter blocks starting with "---".
//
// Format:
//
//	---
//	title: Task Title
//	priority: high
//	status: todo
//	due: 2025-01-31
//	---
//	Task description here.
//
//	---
//	title: Second Task
//	---
//	Second task description.
//
// priority and status default to medium and todo. due accepts a date
// (2006-01-02) or an RFC 3339 timestamp.
func ParseTaskDrafts(content string) ([]TaskDraft, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyFile
	}

	blocks := splitTaskBlocks(content)
	if len(blocks) == 0 {
		return nil, ErrNoTasksInFile
	}

	drafts := make([]TaskDraft, 0, len(blocks))
	for i, block := range blocks {
		draft, err := parseTaskBlock(block)
		if err != nil {
			return nil, fmt.Errorf("task %d: %w", i+1, err)
		}
		drafts = append(drafts, draft)
	}
	return drafts, nil
}

// taskBlock is one frontmatter header plus its body.
type taskBlock struct {
	header []string
	body   []string
}

// splitTaskBlocks splits content into task blocks. A "---" line inside a
// description only starts a new block when the next line is a frontmatter key.
func splitTaskBlocks(content string) []taskBlock {
	lines := strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n")

	var blocks []taskBlock
	var cur *taskBlock
	inHeader := false

	for i, line := range lines {
		isSep := strings.TrimRight(line, " \t") == "---"
		switch {
		case cur == nil:
			if isSep {
				cur = &taskBlock{}
				inHeader = true
			}
		case inHeader:
			if isSep {
				inHeader = false
				continue
			}
			cur.header = append(cur.header, line)
		case isSep && i+1 < len(lines) && isFrontmatterKey(lines[i+1]):
			blocks = append(blocks, *cur)
			cur = &taskBlock{}
			inHeader = true
		default:
			cur.body = append(cur.body, line)
		}
	}
	if cur != nil {
		blocks = append(blocks, *cur)
	}
	return blocks
}

func isFrontmatterKey(line string) bool {
	for _, key := range frontmatterKeys {
		if strings.HasPrefix(line, key) {
			return true
		}
	}
	return false
}

func parseTaskBlock(block taskBlock) (TaskDraft, error) {
	var fm draftFrontmatter
	if err := yaml.Unmarshal([]byte(strings.Join(block.header, "\n")), &fm); err != nil {
		return TaskDraft{}, fmt.Errorf("parse frontmatter: %w", err)
	}

	if IsBlankTitle(fm.Title) {
		return TaskDraft{}, ErrEmptyTitle
	}

	draft := TaskDraft{
		Title:       strings.TrimSpace(fm.Title),
		Description: strings.TrimSpace(strings.Join(block.body, "\n")),
	}

	if fm.Priority != "" {
		p, err := ParsePriority(fm.Priority)
		if err != nil {
			return TaskDraft{}, err
		}
		draft.Priority = p
	}
	if fm.Status != "" {
		s, err := ParseStatus(fm.Status)
		if err != nil {
			return TaskDraft{}, err
		}
		draft.Status = s
	}
	if fm.Due != "" {
		due, err := ParseDueDate(fm.Due)
		if err != nil {
			return TaskDraft{}, err
		}
		draft.DueDate = &due
	}
	return draft, nil
}

// ParseDueDate parses a due date given as 2006-01-02 (midnight UTC)
// or as an RFC 3339 timestamp.
func ParseDueDate(v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	if t, err := time.Parse(time.DateOnly, v); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDueDate, v)
}
