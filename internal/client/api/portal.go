package api

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strconv"

	"github.com/infokelas/kelascli/internal/client/models"
)

// The portal endpoints are thin reads over the gateway; every call below is
// bearer-authenticated by the transport.

func (c *HTTPClient) Schedules(ctx context.Context, todayOnly bool) ([]models.Schedule, error) {
	var query url.Values
	if todayOnly {
		query = url.Values{"today": {"true"}}
	}
	var out struct {
		Data []models.Schedule `json:"data"`
	}
	if err := c.getJSON(ctx, "/schedules", query, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

func (c *HTTPClient) Announcements(ctx context.Context, limit int) ([]models.Announcement, error) {
	var query url.Values
	if limit > 0 {
		query = url.Values{"limit": {strconv.Itoa(limit)}}
	}
	var out struct {
		Data []models.Announcement `json:"data"`
	}
	if err := c.getJSON(ctx, "/announcements", query, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

func (c *HTTPClient) MyClassrooms(ctx context.Context) ([]models.Classroom, error) {
	var out struct {
		Data []models.Classroom `json:"data"`
	}
	if err := c.getJSON(ctx, "/my-classrooms", nil, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

func (c *HTTPClient) Classroom(ctx context.Context, id int64) (models.Classroom, error) {
	var out struct {
		Data models.Classroom `json:"data"`
	}
	if err := c.getJSON(ctx, fmt.Sprintf("/classrooms/%d", id), nil, &out); err != nil {
		return models.Classroom{}, err
	}
	return out.Data, nil
}

func (c *HTTPClient) Subjects(ctx context.Context, classroomID int64) ([]models.Subject, error) {
	var out struct {
		Data []models.Subject `json:"data"`
	}
	if err := c.getJSON(ctx, fmt.Sprintf("/classrooms/%d/subjects", classroomID), nil, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

func (c *HTTPClient) JoinClass(ctx context.Context, code string) (models.Classroom, error) {
	in := map[string]string{"code": code}
	var out struct {
		Data models.Classroom `json:"data"`
	}
	if err := c.postJSON(ctx, "/join-class", in, &out); err != nil {
		return models.Classroom{}, err
	}
	return out.Data, nil
}

func (c *HTTPClient) Assignments(ctx context.Context, classroomID int64) ([]models.Assignment, error) {
	var out struct {
		Data []models.Assignment `json:"data"`
	}
	if err := c.getJSON(ctx, fmt.Sprintf("/classrooms/%d/assignments", classroomID), nil, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

func (c *HTTPClient) Assignment(ctx context.Context, id int64) (models.Assignment, error) {
	var out struct {
		Data models.Assignment `json:"data"`
	}
	if err := c.getJSON(ctx, fmt.Sprintf("/assignments/%d", id), nil, &out); err != nil {
		return models.Assignment{}, err
	}
	return out.Data, nil
}

func (c *HTTPClient) SubmitAssignment(ctx context.Context, id int64, filename string, file io.Reader) (models.Submission, error) {
	files := map[string]filePart{
		"file": {filename: filename, content: file},
	}
	var out struct {
		Data models.Submission `json:"data"`
	}
	if err := c.postMultipart(ctx, fmt.Sprintf("/assignments/%d/submit", id), nil, files, &out); err != nil {
		return models.Submission{}, err
	}
	return out.Data, nil
}

func (c *HTTPClient) MaterialsBySubject(ctx context.Context, subjectID int64) ([]models.Material, error) {
	query := url.Values{"subject_id": {strconv.FormatInt(subjectID, 10)}}
	var out struct {
		Data []models.Material `json:"data"`
	}
	if err := c.getJSON(ctx, "/materials", query, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

func (c *HTTPClient) Material(ctx context.Context, id int64) (models.Material, error) {
	var out struct {
		Data models.Material `json:"data"`
	}
	if err := c.getJSON(ctx, fmt.Sprintf("/materials/%d", id), nil, &out); err != nil {
		return models.Material{}, err
	}
	return out.Data, nil
}
