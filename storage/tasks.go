package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"taskboard-api/domain"
)

type taskDoc struct {
	ID              primitive.ObjectID     `bson:"_id,omitempty"`
	Title           string                 `bson:"title"`
	Priority        string                 `bson:"priority"`
	Status          string                 `bson:"status"`
	DueDate         *time.Time             `bson:"dueDate,omitempty"`
	CheckLists      []domain.CheckListItem `bson:"checkLists"`
	AssignedToEmail *string                `bson:"assigned_to_email,omitempty"`
	AssignedBy      primitive.ObjectID     `bson:"assignedBy,omitempty"`
	SharedWith      []primitive.ObjectID   `bson:"shared_with"`
	CreatedAt       time.Time              `bson:"createdAt"`
	CreatedBy       primitive.ObjectID     `bson:"createdBy,omitempty"`
}

func (d *taskDoc) toDomain(now time.Time) domain.Task {
	t := domain.Task{
		ID:              d.ID.Hex(),
		Title:           d.Title,
		Priority:        d.Priority,
		Status:          d.Status,
		DueDate:         d.DueDate,
		CheckLists:      d.CheckLists,
		AssignedToEmail: d.AssignedToEmail,
		CreatedAt:       d.CreatedAt,
	}
	if !d.AssignedBy.IsZero() {
		t.AssignedBy = d.AssignedBy.Hex()
	}
	if !d.CreatedBy.IsZero() {
		t.CreatedBy = d.CreatedBy.Hex()
	}
	for _, id := range d.SharedWith {
		t.SharedWith = append(t.SharedWith, id.Hex())
	}
	t.IsExpired = t.ExpiredAt(now)
	return t
}

func validateTaskFields(status, priority string) error {
	if !domain.ValidStatus(status) {
		return fmt.Errorf("%w: status %q", ErrInvalidField, status)
	}
	if !domain.ValidPriority(priority) {
		return fmt.Errorf("%w: priority %q", ErrInvalidField, priority)
	}
	return nil
}

// newTaskDoc builds the document for a fresh task. shared_with is
// always written, as an empty array when no ids are given.
func newTaskDoc(t domain.Task, creator primitive.ObjectID) (taskDoc, error) {
	shared := make([]primitive.ObjectID, 0, len(t.SharedWith))
	for _, raw := range t.SharedWith {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			return taskDoc{}, fmt.Errorf("%w: shared_with id %q", ErrInvalidField, raw)
		}
		shared = append(shared, id)
	}
	return taskDoc{
		Title:           t.Title,
		Priority:        t.Priority,
		Status:          t.Status,
		DueDate:         t.DueDate,
		CheckLists:      t.CheckLists,
		AssignedToEmail: t.AssignedToEmail,
		AssignedBy:      creator,
		SharedWith:      shared,
		CreatedAt:       t.CreatedAt,
		CreatedBy:       creator,
	}, nil
}

// InsertTask persists a new task. The creator is recorded as both
// createdBy and assignedBy. Status and priority must belong to their
// closed enumerations.
func (s *Store) InsertTask(ctx context.Context, t domain.Task) (domain.Task, error) {
	if err := validateTaskFields(t.Status, t.Priority); err != nil {
		return domain.Task{}, err
	}
	creator, err := primitive.ObjectIDFromHex(t.CreatedBy)
	if err != nil {
		return domain.Task{}, fmt.Errorf("%w: creator id", ErrInvalidField)
	}

	doc, err := newTaskDoc(t, creator)
	if err != nil {
		return domain.Task{}, err
	}
	res, err := s.tasks.InsertOne(ctx, doc)
	if err != nil {
		return domain.Task{}, err
	}
	doc.ID = res.InsertedID.(primitive.ObjectID)
	return doc.toDomain(time.Now()), nil
}

// TaskByID fetches a task by its hex id. There is no ownership check;
// reads by id are open.
func (s *Store) TaskByID(ctx context.Context, id string) (domain.Task, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.Task{}, ErrNotFound
	}
	var doc taskDoc
	err = s.tasks.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.Task{}, ErrNotFound
		}
		return domain.Task{}, err
	}
	return doc.toDomain(time.Now()), nil
}

func ownershipFilter(userID primitive.ObjectID, email string) bson.A {
	return bson.A{
		bson.M{"createdBy": userID},
		bson.M{"assigned_to_email": email},
	}
}

// TasksInWindow returns the tasks the user created or is assigned to,
// restricted to createdAt within (from, to], with each task's assigner
// resolved for display.
func (s *Store) TasksInWindow(ctx context.Context, userID, email string, from, to time.Time) ([]domain.ListedTask, error) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, ErrNotFound
	}
	filter := bson.M{
		"$or":       ownershipFilter(oid, email),
		"createdAt": bson.M{"$gt": from, "$lte": to},
	}
	docs, err := s.findTasks(ctx, filter)
	if err != nil {
		return nil, err
	}
	return s.resolveAssigners(ctx, docs)
}

// resolveAssigners batches the assigner lookups for a set of task
// documents and attaches the resolved references.
func (s *Store) resolveAssigners(ctx context.Context, docs []taskDoc) ([]domain.ListedTask, error) {
	ids := make([]primitive.ObjectID, 0, len(docs))
	seen := make(map[primitive.ObjectID]struct{}, len(docs))
	for _, d := range docs {
		if d.AssignedBy.IsZero() {
			continue
		}
		if _, ok := seen[d.AssignedBy]; ok {
			continue
		}
		seen[d.AssignedBy] = struct{}{}
		ids = append(ids, d.AssignedBy)
	}

	refs := make(map[primitive.ObjectID]domain.UserRef, len(ids))
	if len(ids) > 0 {
		cur, err := s.users.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
		if err != nil {
			return nil, err
		}
		defer cur.Close(ctx)
		for cur.Next(ctx) {
			var u userDoc
			if err := cur.Decode(&u); err != nil {
				return nil, err
			}
			refs[u.ID] = domain.UserRef{ID: u.ID.Hex(), Name: u.Name, Email: u.Email}
		}
		if err := cur.Err(); err != nil {
			return nil, err
		}
	}

	now := time.Now()
	listed := make([]domain.ListedTask, 0, len(docs))
	for i := range docs {
		listed = append(listed, domain.ListedTask{
			Task:       docs[i].toDomain(now),
			AssignedBy: refs[docs[i].AssignedBy],
		})
	}
	return listed, nil
}

// UpdateTask applies the non-nil fields of patch to the task, but only
// when the caller created it or is assigned to it by email. The
// ownership predicate is part of the filter, so a task the caller may
// not touch is indistinguishable from a missing one.
func (s *Store) UpdateTask(ctx context.Context, id, userID, email string, patch domain.TaskPatch) (domain.Task, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.Task{}, ErrNotFound
	}
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return domain.Task{}, ErrNotFound
	}
	set, err := taskPatchDoc(patch)
	if err != nil {
		return domain.Task{}, err
	}

	filter := bson.M{
		"_id": oid,
		"$or": ownershipFilter(uid, email),
	}
	var doc taskDoc
	if len(set) == 0 {
		// Nothing to apply; an empty $set is rejected by the server. A
		// read through the same filter keeps the not-found semantics.
		err = s.tasks.FindOne(ctx, filter).Decode(&doc)
	} else {
		opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
		err = s.tasks.FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, opts).Decode(&doc)
	}
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.Task{}, ErrNotFound
		}
		return domain.Task{}, err
	}
	return doc.toDomain(time.Now()), nil
}

func taskPatchDoc(patch domain.TaskPatch) (bson.M, error) {
	set := bson.M{}
	if patch.Title != nil {
		set["title"] = *patch.Title
	}
	if patch.Priority != nil {
		if !domain.ValidPriority(*patch.Priority) {
			return nil, fmt.Errorf("%w: priority %q", ErrInvalidField, *patch.Priority)
		}
		set["priority"] = *patch.Priority
	}
	if patch.Status != nil {
		if !domain.ValidStatus(*patch.Status) {
			return nil, fmt.Errorf("%w: status %q", ErrInvalidField, *patch.Status)
		}
		set["status"] = *patch.Status
	}
	if patch.DueDate != nil {
		set["dueDate"] = *patch.DueDate
	}
	if patch.CheckLists != nil {
		set["checkLists"] = *patch.CheckLists
	}
	if patch.AssignedToEmail != nil {
		set["assigned_to_email"] = *patch.AssignedToEmail
	}
	return set, nil
}

// DeleteTask removes the task, but only when the caller created it.
func (s *Store) DeleteTask(ctx context.Context, id, userID string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return ErrNotFound
	}
	err = s.tasks.FindOneAndDelete(ctx, bson.M{"_id": oid, "createdBy": uid}).Err()
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

// TasksCreatedBy returns every task the user created.
func (s *Store) TasksCreatedBy(ctx context.Context, userID string) ([]domain.Task, error) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, ErrNotFound
	}
	docs, err := s.findTasks(ctx, bson.M{"createdBy": oid})
	if err != nil {
		return nil, err
	}
	return docsToDomain(docs), nil
}

// TasksAssignedTo returns every task assigned to the given email.
func (s *Store) TasksAssignedTo(ctx context.Context, email string) ([]domain.Task, error) {
	docs, err := s.findTasks(ctx, bson.M{"assigned_to_email": email})
	if err != nil {
		return nil, err
	}
	return docsToDomain(docs), nil
}

func (s *Store) findTasks(ctx context.Context, filter bson.M) ([]taskDoc, error) {
	cur, err := s.tasks.Find(ctx, filter)
	if err != nil {
		return nil, err
	}

	var docs []taskDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

func docsToDomain(docs []taskDoc) []domain.Task {
	now := time.Now()
	tasks := make([]domain.Task, 0, len(docs))
	for i := range docs {
		tasks = append(tasks, docs[i].toDomain(now))
	}
	return tasks
}
