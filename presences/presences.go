// Package presences reads the courses of a teacher and runs their call sheets.
package presences

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"time"

	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/api"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/loading"
	"github.com/samber/lo"
)

// ErrNoRegister is returned when a course has no call sheet yet.
var ErrNoRegister = errors.New("course has no register")

// EventType classifies a presence event.
type EventType int

const (
	Absence EventType = iota + 1
	Lateness
	Departure
)

// RegisterState is the progress of a call.
type RegisterState int

const (
	Todo RegisterState = iota + 1
	InProgress
	Validated
)

func (s RegisterState) String() string {
	switch s {
	case Todo:
		return "todo"
	case InProgress:
		return "in progress"
	case Validated:
		return "validated"
	default:
		return "unknown"
	}
}

const dayLayout = "2006-01-02"

// Course is a lesson of the teacher timetable.
type Course struct {
	ID         string   `json:"id"`
	Subject    string   `json:"subject"`
	Classes    []string `json:"classes"`
	Rooms      []string `json:"rooms,omitempty"`
	Start      api.Time `json:"start"`
	End        api.Time `json:"end"`
	RegisterID int      `json:"registerId,omitempty"`
}

// ID returns the identifier of a course occurrence. Recurring courses share an id, so the start is part of it.
func ID(c Course) string {
	return c.ID + "@" + strconv.FormatInt(c.Start.Unix(), 10)
}

// Student is a line of a call sheet.
type Student struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Group   string `json:"group,omitempty"`
	EventID int    `json:"eventId,omitempty"`
	Absent  bool   `json:"absent"`
}

// Register is the call sheet of a course.
type Register struct {
	ID          int           `json:"id"`
	CourseID    string        `json:"courseId"`
	StructureID string        `json:"structureId"`
	State       RegisterState `json:"state"`
	Start       api.Time      `json:"start"`
	End         api.Time      `json:"end"`
	Students    []Student     `json:"students"`
}

// Absentees returns the students marked absent.
func (r Register) Absentees() []Student {
	return lo.Filter(r.Students, func(s Student, _ int) bool { return s.Absent })
}

type courseReply struct {
	ID          string   `json:"_id"`
	SubjectName string   `json:"subjectName"`
	Classes     []string `json:"classes"`
	Groups      []string `json:"groups"`
	RoomLabels  []string `json:"roomLabels"`
	StartDate   api.Time `json:"startDate"`
	EndDate     api.Time `json:"endDate"`
	RegisterID  int      `json:"register_id"`
}

type eventReply struct {
	ID     int       `json:"id"`
	TypeID EventType `json:"type_id"`
}

type studentReply struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	GroupName string       `json:"group_name"`
	Events    []eventReply `json:"events"`
}

type registerReply struct {
	ID          int            `json:"id"`
	CourseID    string         `json:"course_id"`
	StructureID string         `json:"structure_id"`
	StateID     RegisterState  `json:"state_id"`
	StartDate   api.Time       `json:"start_date"`
	EndDate     api.Time       `json:"end_date"`
	Students    []studentReply `json:"students"`
}

// Courses lists the courses of teacherID from the first day of from over days days, in start order.
func Courses(ctx context.Context, c api.Getter, teacherID, structureID string, from time.Time, days int) ([]Course, error) {
	if days < 1 {
		days = 1
	}
	start := from.Format(dayLayout)
	end := from.AddDate(0, 0, days-1).Format(dayLayout)

	path := fmt.Sprintf("/viescolaire/common/courses/%s/%s/%s", url.PathEscape(teacherID), start, end)

	var reply []courseReply
	if err := c.Get(ctx, path, url.Values{"structureId": {structureID}}, &reply); err != nil {
		return nil, fmt.Errorf("courses %s..%s: %w", start, end, err)
	}

	courses := lo.Map(reply, func(r courseReply, _ int) Course {
		return Course{
			ID:         r.ID,
			Subject:    r.SubjectName,
			Classes:    append(append([]string{}, r.Classes...), r.Groups...),
			Rooms:      r.RoomLabels,
			Start:      r.StartDate,
			End:        r.EndDate,
			RegisterID: r.RegisterID,
		}
	})

	sort.SliceStable(courses, func(i, j int) bool {
		return courses[i].Start.Before(courses[j].Start.Time)
	})
	return courses, nil
}

// GetRegister reads the call sheet id.
func GetRegister(ctx context.Context, c api.Getter, id int) (Register, error) {
	var reply registerReply
	if err := c.Get(ctx, "/presences/registers/"+strconv.Itoa(id), nil, &reply); err != nil {
		return Register{}, fmt.Errorf("register %d: %w", id, err)
	}

	return Register{
		ID:          reply.ID,
		CourseID:    reply.CourseID,
		StructureID: reply.StructureID,
		State:       reply.StateID,
		Start:       reply.StartDate,
		End:         reply.EndDate,
		Students: lo.Map(reply.Students, func(s studentReply, _ int) Student {
			student := Student{ID: s.ID, Name: s.Name, Group: s.GroupName}
			if absence, ok := lo.Find(s.Events, func(e eventReply) bool { return e.TypeID == Absence }); ok {
				student.Absent = true
				student.EventID = absence.ID
			}
			return student
		}),
	}, nil
}

// RegisterOf reads the call sheet of course.
func RegisterOf(ctx context.Context, c api.Getter, course Course) (Register, error) {
	if course.RegisterID == 0 {
		return Register{}, fmt.Errorf("%w: %s", ErrNoRegister, course.Subject)
	}
	return GetRegister(ctx, c, course.RegisterID)
}

type eventRequest struct {
	RegisterID int       `json:"register_id"`
	TypeID     EventType `json:"type_id"`
	StudentID  string    `json:"student_id"`
	StartDate  string    `json:"start_date"`
	EndDate    string    `json:"end_date"`
}

// MarkAbsent records the absence of studentID for the whole register slot and returns the event id.
func MarkAbsent(ctx context.Context, c api.Requester, register Register, studentID string) (int, error) {
	body := eventRequest{
		RegisterID: register.ID,
		TypeID:     Absence,
		StudentID:  studentID,
		StartDate:  register.Start.Format(time.DateTime),
		EndDate:    register.End.Format(time.DateTime),
	}

	var reply struct {
		ID int `json:"id"`
	}
	if err := c.Post(ctx, "/presences/events", body, &reply); err != nil {
		return 0, fmt.Errorf("mark %s absent: %w", studentID, err)
	}
	return reply.ID, nil
}

// ClearEvent deletes a presence event.
func ClearEvent(ctx context.Context, c api.Requester, eventID int) error {
	if err := c.Delete(ctx, "/presences/events/"+strconv.Itoa(eventID), nil); err != nil {
		return fmt.Errorf("clear event %d: %w", eventID, err)
	}
	return nil
}

// Validate closes the call of register.
func Validate(ctx context.Context, c api.Requester, registerID int) error {
	body := struct {
		StateID RegisterState `json:"state_id"`
	}{StateID: Validated}

	if err := c.Put(ctx, "/presences/registers/"+strconv.Itoa(registerID)+"/status", body, nil); err != nil {
		return fmt.Errorf("validate register %d: %w", registerID, err)
	}
	return nil
}

// Fetcher lists the courses of the period on page zero. The timetable endpoint is not paged.
func Fetcher(c api.Getter, teacherID, structureID string, from func() time.Time, days int) loading.Fetcher[Course] {
	return loading.Unpaged(func(ctx context.Context) ([]Course, error) {
		return Courses(ctx, c, teacherID, structureID, from(), days)
	})
}
