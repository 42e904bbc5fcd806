package parser

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/NeroQue/academy-player/internal/models"
)

// CourseParser reads course outlines and progress lists from disk, for
// evaluating a course without talking to the backend
type CourseParser struct {
	BasePath string // relative paths are resolved against this
	log      *slog.Logger
}

// NewCourseParser creates parser with base directory
func NewCourseParser(basePath string, log *slog.Logger) *CourseParser {
	if log == nil {
		log = slog.Default()
	}
	log.Debug("initializing course parser", "base_path", basePath)

	return &CourseParser{
		BasePath: basePath,
		log:      log,
	}
}

// ValidateBasePath checks if the base directory exists and we can read it
func (p *CourseParser) ValidateBasePath() error {
	info, err := os.Stat(p.BasePath)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("base directory does not exist: %s", p.BasePath)
		}
		return fmt.Errorf("error accessing base directory: %w", err)
	}

	// make sure it's actually a directory
	if !info.IsDir() {
		return fmt.Errorf("base path is not a directory: %s", p.BasePath)
	}

	// test if we can read it
	f, err := os.Open(p.BasePath)
	if err != nil {
		return fmt.Errorf("cannot open base directory: %w", err)
	}
	defer f.Close()

	_, err = f.Readdir(1)
	if err != nil && err != io.EOF {
		return fmt.Errorf("cannot read contents of base directory: %w", err)
	}

	return nil
}

// ParseCourseFile reads a course tree from .json, .yaml or .yml.
// The result is normalized the same way the network client does it.
func (p *CourseParser) ParseCourseFile(path string) (models.Course, error) {
	var course models.Course
	if err := p.decodeFile(path, &course); err != nil {
		return models.Course{}, err
	}
	if course.ID.IsZero() {
		// fall back to the file name so synthetic module ids stay stable
		course.ID = models.ID(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
	}

	course = course.Normalize()
	p.log.Debug("parsed course file", "path", path, "modules", len(course.Modules), "lessons", course.LessonCount())
	return course, nil
}

// ParseProgressFile reads a list of progress records. Accepts a bare list or
// one wrapped in "data" or "progress".
func (p *CourseParser) ParseProgressFile(path string) ([]models.ProgressRecord, error) {
	data, err := p.readAsJSON(path)
	if err != nil {
		return nil, err
	}

	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '{' {
		var wrapped struct {
			Data     json.RawMessage `json:"data"`
			Progress json.RawMessage `json:"progress"`
		}
		if err := json.Unmarshal(data, &wrapped); err != nil {
			return nil, fmt.Errorf("invalid progress file %s: %w", path, err)
		}
		switch {
		case len(wrapped.Data) > 0:
			data = wrapped.Data
		case len(wrapped.Progress) > 0:
			data = wrapped.Progress
		default:
			return nil, fmt.Errorf("progress file %s has no data or progress list", path)
		}
	}

	var records []models.ProgressRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("invalid progress file %s: %w", path, err)
	}
	return records, nil
}

// ParseCourseFolder turns a directory into a course: each subdirectory is a
// module, each file a lesson. Files directly in the folder form one module
// when there are no subdirectories.
func (p *CourseParser) ParseCourseFolder(folderPath string) (models.Course, error) {
	folderPath = p.resolve(folderPath)

	info, err := os.Stat(folderPath)
	if err != nil {
		return models.Course{}, fmt.Errorf("error accessing course folder: %w", err)
	}
	if !info.IsDir() {
		return models.Course{}, fmt.Errorf("specified path is not a directory: %s", folderPath)
	}

	modules, err := p.scanCourseFolder(folderPath)
	if err != nil {
		return models.Course{}, err
	}

	course := models.Course{
		ID:      models.ID(filepath.Base(folderPath)),
		Title:   filepath.Base(folderPath),
		Modules: modules,
	}
	return course.Normalize(), nil
}

// scanCourseFolder builds modules from the folder layout
func (p *CourseParser) scanCourseFolder(folderPath string) ([]models.Module, error) {
	var modules []models.Module

	entries, err := os.ReadDir(folderPath)
	if err != nil {
		return nil, fmt.Errorf("error reading course directory: %w", err)
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		modulePath := filepath.Join(folderPath, entry.Name())

		lessons, err := p.scanModuleForLessons(folderPath, modulePath)
		if err != nil {
			p.log.Warn("error scanning module", "module", entry.Name(), "error", err)
			continue
		}

		modules = append(modules, models.Module{
			ID:      models.ID(entry.Name()),
			Title:   entry.Name(),
			Lessons: lessons,
		})
	}

	// if no subdirectories, treat files in this folder as one module
	if len(modules) == 0 {
		lessons, err := p.scanModuleForLessons(folderPath, folderPath)
		if err != nil {
			return nil, fmt.Errorf("error scanning for lessons: %w", err)
		}
		modules = append(modules, models.Module{
			Title:   "Main Content",
			Lessons: lessons,
		})
	}

	p.log.Debug("course folder scanned", "path", folderPath, "modules", len(modules))
	return modules, nil
}

// scanModuleForLessons finds lesson files in a module, nested folders included
func (p *CourseParser) scanModuleForLessons(coursePath, modulePath string) ([]models.Lesson, error) {
	var lessons []models.Lesson

	entries, err := os.ReadDir(modulePath)
	if err != nil {
		return nil, fmt.Errorf("error reading module directory: %w", err)
	}

	for _, entry := range entries {
		entryPath := filepath.Join(modulePath, entry.Name())

		if entry.IsDir() {
			nested, err := p.scanModuleForLessons(coursePath, entryPath)
			if err != nil {
				p.log.Warn("error scanning subdirectory", "dir", entry.Name(), "error", err)
				continue
			}
			lessons = append(lessons, nested...)
			continue
		}

		relativePath, err := filepath.Rel(coursePath, entryPath)
		if err != nil {
			relativePath = entryPath
		}

		lessons = append(lessons, models.Lesson{
			ID:    models.ID(filepath.ToSlash(relativePath)),
			Title: strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name())),
			Type:  lessonTypeFor(entry.Name()),
		})
	}

	return lessons, nil
}

// lessonTypeFor figures out what kind of lesson a file is based on extension
func lessonTypeFor(filename string) models.LessonType {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".mp4", ".avi", ".mov", ".mkv", ".wmv", ".webm":
		return models.LessonTypeVideo
	case ".md", ".txt", ".html":
		return models.LessonTypeText
	default:
		return models.LessonTypeFile
	}
}

func (p *CourseParser) decodeFile(path string, out interface{}) error {
	data, err := p.readAsJSON(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("invalid course file %s: %w", path, err)
	}
	return nil
}

// readAsJSON loads a file and converts YAML to JSON, so both go through the
// same decoders (and the same id and progress field handling)
func (p *CourseParser) readAsJSON(path string) ([]byte, error) {
	path = p.resolve(path)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return data, nil
	case ".yaml", ".yml":
		var doc interface{}
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("invalid yaml in %s: %w", path, err)
		}
		converted, err := json.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("cannot convert %s to json: %w", path, err)
		}
		return converted, nil
	default:
		return nil, fmt.Errorf("unsupported file type %q (want .json, .yaml or .yml)", filepath.Ext(path))
	}
}

func (p *CourseParser) resolve(path string) string {
	if filepath.IsAbs(path) || p.BasePath == "" {
		return path
	}
	return filepath.Join(p.BasePath, path)
}
