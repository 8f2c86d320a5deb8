package logtail

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"
)

// Record is one parsed line of the JSON activity log.
type Record struct {
	Time  time.Time
	Level string
	Msg   string
	Attrs map[string]string
	Raw   string
}

// Read returns at most maxLines from the end of the file at path. A
// non-positive maxLines returns every line.
func Read(path string, maxLines int) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	if maxLines > 0 {
		return readTail(file, maxLines)
	}

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}
	return lines, nil
}

const tailChunkSize = 32 * 1024

// readTail reads backwards from the end of file in chunks until it holds
// more than maxLines newlines or reaches the start of the file.
func readTail(file *os.File, maxLines int) ([]string, error) {
	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat log: %w", err)
	}

	offset := info.Size()
	var buf []byte
	newlines := 0
	for offset > 0 && newlines <= maxLines {
		n := min(int64(tailChunkSize), offset)
		offset -= n
		chunk := make([]byte, n)
		if _, err := file.ReadAt(chunk, offset); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("read log: %w", err)
		}
		newlines += bytes.Count(chunk, []byte{'\n'})
		buf = append(chunk, buf...)
	}

	text := strings.TrimSuffix(string(buf), "\n")
	if len(buf) == 0 {
		return []string{}, nil
	}
	lines := strings.Split(text, "\n")
	if offset > 0 {
		// first element may start mid-line
		lines = lines[1:]
	}
	if len(lines) > maxLines {
		lines = lines[len(lines)-maxLines:]
	}
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines, nil
}

// ReadRecords reads the tail of the log and parses each line. Blank lines
// are skipped.
func ReadRecords(path string, maxLines int) ([]Record, error) {
	lines, err := Read(path, maxLines)
	if err != nil {
		return nil, err
	}
	records := make([]Record, 0, len(lines))
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		records = append(records, Parse(line))
	}
	return records, nil
}

// Parse decodes a JSON log line. Lines that are not JSON objects come back
// with only Raw and Msg set.
func Parse(line string) Record {
	rec := Record{Raw: line}
	var payload map[string]any
	if err := json.Unmarshal([]byte(line), &payload); err != nil {
		rec.Msg = strings.TrimSpace(line)
		return rec
	}
	for key, value := range payload {
		switch key {
		case "ts", "time":
			if s, ok := value.(string); ok {
				if ts, err := time.Parse(time.RFC3339Nano, s); err == nil {
					rec.Time = ts
				}
			}
		case "level":
			rec.Level = strings.ToLower(fmt.Sprint(value))
		case "msg":
			rec.Msg = fmt.Sprint(value)
		default:
			if rec.Attrs == nil {
				rec.Attrs = make(map[string]string)
			}
			rec.Attrs[key] = attrString(value)
		}
	}
	return rec
}

// Format renders a record on a single line: local clock time, level, message
// and sorted key=value attributes.
func Format(rec Record) string {
	if rec.Level == "" && rec.Time.IsZero() {
		return rec.Msg
	}
	var b strings.Builder
	if !rec.Time.IsZero() {
		b.WriteString(rec.Time.Local().Format("15:04:05"))
		b.WriteByte(' ')
	}
	if rec.Level != "" {
		fmt.Fprintf(&b, "%-5s ", strings.ToUpper(rec.Level))
	}
	b.WriteString(rec.Msg)

	keys := make([]string, 0, len(rec.Attrs))
	for k := range rec.Attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%s", k, rec.Attrs[k])
	}
	return b.String()
}

func attrString(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case nil:
		return "null"
	case float64, bool:
		return fmt.Sprint(v)
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(data)
	}
}
