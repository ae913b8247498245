package service

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/studiosalgoforge-stack/AlgoForgestudios-sub001/internal/model"
)

// ValidationError is a client error in a submitted payload.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func validationErrorf(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// NormalizeCourse validates a creation payload and returns the course to
// persist. title, description, duration and category must be non-empty.
// Malformed list fields are coerced to empty lists; a malformed syllabus
// entry is an error qualified with its index.
func NormalizeCourse(p *model.CoursePayload) (*model.Course, error) {
	required := []struct {
		field string
		value *string
	}{
		{"title", p.Title},
		{"description", p.Description},
		{"duration", p.Duration},
		{"category", p.Category},
	}
	for _, r := range required {
		if r.value == nil || *r.value == "" {
			return nil, validationErrorf(r.field, "%s is required", r.field)
		}
	}

	syllabus, err := normalizeSyllabus(p.Syllabus)
	if err != nil {
		return nil, err
	}

	c := &model.Course{
		Title:       *p.Title,
		Description: *p.Description,
		Duration:    *p.Duration,
		Category:    *p.Category,
		Syllabus:    syllabus,
		Skills:      normalizeStrings(p.Skills),
		Tags:        normalizeStrings(p.Tags),
		Curriculum:  normalizeStrings(p.Curriculum),
	}
	c.CourseCategory = deref(p.CourseCategory)
	c.Level = deref(p.Level)
	c.Mode = deref(p.Mode)
	c.Price = deref(p.Price)
	c.Image = deref(p.Image)
	c.Instructor = deref(p.Instructor)
	if p.Featured != nil {
		c.Featured = *p.Featured
	}
	if p.Trending != nil {
		c.Trending = *p.Trending
	}
	if p.Rating != nil {
		c.Rating = *p.Rating
	}
	if p.Students != nil {
		c.Students = *p.Students
	}
	return c, nil
}

// NormalizeCourseUpdate validates a PUT/PATCH payload. Only fields present in
// the payload appear in the returned update, normalized the same way as on
// creation. Required scalars may be omitted but not blanked.
func NormalizeCourseUpdate(p *model.CoursePayload) (model.CourseUpdate, error) {
	update := model.CourseUpdate{}

	for _, f := range []struct {
		field string
		value *string
	}{
		{"title", p.Title},
		{"description", p.Description},
		{"duration", p.Duration},
		{"category", p.Category},
	} {
		if f.value == nil {
			continue
		}
		if *f.value == "" {
			return nil, validationErrorf(f.field, "%s cannot be empty", f.field)
		}
		update[f.field] = *f.value
	}

	optional := map[string]*string{
		"courseCategory": p.CourseCategory,
		"level":          p.Level,
		"mode":           p.Mode,
		"price":          p.Price,
		"image":          p.Image,
		"instructor":     p.Instructor,
	}
	for field, value := range optional {
		if value != nil {
			update[field] = *value
		}
	}
	if p.Featured != nil {
		update["featured"] = *p.Featured
	}
	if p.Trending != nil {
		update["trending"] = *p.Trending
	}
	if p.Rating != nil {
		update["rating"] = *p.Rating
	}
	if p.Students != nil {
		update["students"] = *p.Students
	}

	if len(p.Syllabus) > 0 {
		syllabus, err := normalizeSyllabus(p.Syllabus)
		if err != nil {
			return nil, err
		}
		update["syllabus"] = syllabus
	}
	lists := map[string]json.RawMessage{
		"skills":     p.Skills,
		"tags":       p.Tags,
		"curriculum": p.Curriculum,
	}
	for field, raw := range lists {
		if len(raw) > 0 {
			update[field] = normalizeStrings(raw)
		}
	}

	for _, owned := range serverOwnedCourseFields {
		delete(update, owned)
	}
	return update, nil
}

var serverOwnedCourseFields = []string{"_id", "createdAt", "updatedAt"}

func normalizeSyllabus(raw json.RawMessage) ([]model.SyllabusModule, error) {
	items, ok := decodeList(raw)
	if !ok {
		return []model.SyllabusModule{}, nil
	}

	modules := make([]model.SyllabusModule, 0, len(items))
	for i, item := range items {
		field := fmt.Sprintf("syllabus[%d]", i)
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, validationErrorf(field, "syllabus[%d] must be an object", i)
		}
		name, _ := obj["module"].(string)
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, validationErrorf(field+".module", "syllabus[%d].module is required", i)
		}

		topics := []string{}
		if rawTopics, present := obj["topics"]; present && rawTopics != nil {
			list, ok := rawTopics.([]any)
			if !ok {
				return nil, validationErrorf(field+".topics", "syllabus[%d].topics must be an array", i)
			}
			for _, t := range list {
				s, ok := t.(string)
				if !ok {
					continue
				}
				if s = strings.TrimSpace(s); s != "" {
					topics = append(topics, s)
				}
			}
		}
		modules = append(modules, model.SyllabusModule{Module: name, Topics: topics})
	}
	return modules, nil
}

// normalizeStrings keeps the string entries of a list and coerces anything
// that is not a list to an empty one.
func normalizeStrings(raw json.RawMessage) []string {
	out := []string{}
	items, ok := decodeList(raw)
	if !ok {
		return out
	}
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func decodeList(raw json.RawMessage) ([]any, bool) {
	if len(raw) == 0 {
		return nil, false
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, false
	}
	items, ok := v.([]any)
	return items, ok
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
