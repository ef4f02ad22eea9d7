package persistence

import (
	"context"
	"database/sql"
	"errors"

	"github.com/petrijr/dagrun/pkg/api"
)

// SQLiteStore is a WorkflowStore and TaskStore backed by SQLite.
//
// It expects an *sql.DB that uses a SQLite driver (for example,
// "modernc.org/sqlite"). The caller is responsible for importing
// the driver, e.g.:
//
//	import _ "modernc.org/sqlite"
type SQLiteStore struct {
	db *sql.DB
}

// Ensure SQLiteStore implements the interfaces.
var _ WorkflowStore = (*SQLiteStore)(nil)

var _ TaskStore = (*SQLiteStore)(nil)

// NewSQLiteStore initializes the required schema in the given database and
// returns a new SQLiteStore.
func NewSQLiteStore(db *sql.DB) (*SQLiteStore, error) {
	s := &SQLiteStore{db: db}
	if err := s.initSchema(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) initSchema() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS workflows (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			client_id TEXT NOT NULL,
			status TEXT NOT NULL,
			input BLOB,
			final_result TEXT
		);

		CREATE TABLE IF NOT EXISTS tasks (
			id TEXT PRIMARY KEY,
			client_id TEXT NOT NULL,
			workflow_id TEXT NOT NULL,
			workflow_seq INTEGER NOT NULL,
			status TEXT NOT NULL,
			task_type TEXT NOT NULL,
			step_number INTEGER NOT NULL,
			progress TEXT,
			consumer_id TEXT,
			dependency_ids BLOB,
			UNIQUE (workflow_id, step_number)
		);

		CREATE INDEX IF NOT EXISTS idx_tasks_claim
			ON tasks (status, workflow_seq, step_number);

		CREATE TABLE IF NOT EXISTS results (
			id TEXT PRIMARY KEY,
			task_id TEXT NOT NULL UNIQUE,
			data BLOB,
			error TEXT
		);`,
	)
	return err
}

func (s *SQLiteStore) SaveWorkflow(ctx context.Context, wf *api.Workflow) error {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO workflows (id, client_id, status, input, final_result)
		VALUES (?, ?, ?, ?, ?)`,
		wf.ID,
		wf.ClientID,
		string(wf.Status),
		[]byte(wf.Input),
		wf.FinalResult,
	)
	if err != nil {
		return err
	}

	seq, err := res.LastInsertId()
	if err != nil {
		return err
	}
	wf.Seq = seq

	return nil
}

func (s *SQLiteStore) UpdateWorkflow(ctx context.Context, wf *api.Workflow) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE workflows
		SET status = ?, final_result = ?
		WHERE id = ?`,
		string(wf.Status),
		wf.FinalResult,
		wf.ID,
	)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrWorkflowNotFound
	}

	return nil
}

func (s *SQLiteStore) GetWorkflow(ctx context.Context, id string) (*api.Workflow, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT seq, id, client_id, status, input, final_result
		FROM workflows
		WHERE id = ?`,
		id,
	)

	var wf api.Workflow
	var statusStr string
	var input []byte
	var finalResult sql.NullString

	if err := row.Scan(&wf.Seq, &wf.ID, &wf.ClientID, &statusStr, &input, &finalResult); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrWorkflowNotFound
		}
		return nil, err
	}

	wf.Status = api.WorkflowStatus(statusStr)
	wf.Input = input
	if finalResult.Valid {
		wf.FinalResult = finalResult.String
	}

	return &wf, nil
}

func (s *SQLiteStore) SaveTasks(ctx context.Context, tasks []*api.Task) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	for _, t := range tasks {
		deps, err := encodeIDList(t.DependencyIDs)
		if err != nil {
			_ = tx.Rollback()
			return err
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO tasks (id, client_id, workflow_id, workflow_seq, status, task_type, step_number, progress, consumer_id, dependency_ids)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			t.ID,
			t.ClientID,
			t.WorkflowID,
			t.WorkflowSeq,
			string(t.Status),
			t.Type,
			t.StepNumber,
			t.Progress,
			t.ConsumerID,
			deps,
		)
		if err != nil {
			_ = tx.Rollback()
			return err
		}
	}

	return tx.Commit()
}

func (s *SQLiteStore) UpdateTask(ctx context.Context, task *api.Task) error {
	deps, err := encodeIDList(task.DependencyIDs)
	if err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE tasks
		SET status = ?, progress = ?, consumer_id = ?, dependency_ids = ?
		WHERE id = ?`,
		string(task.Status),
		task.Progress,
		task.ConsumerID,
		deps,
		task.ID,
	)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrTaskNotFound
	}

	return nil
}

const taskColumns = `
	t.id, t.client_id, t.workflow_id, t.workflow_seq, t.status, t.task_type,
	t.step_number, t.progress, t.consumer_id, t.dependency_ids,
	r.id, r.data, r.error`

const taskFromClause = `
	FROM tasks t
	LEFT JOIN results r ON r.task_id = t.id`

func (s *SQLiteStore) GetTask(ctx context.Context, id string) (*api.Task, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+taskColumns+taskFromClause+` WHERE t.id = ?`, id)

	task, err := scanTask(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}

	return task, nil
}

func (s *SQLiteStore) ListWorkflowTasks(ctx context.Context, workflowID string) ([]*api.Task, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+taskColumns+taskFromClause+`
		WHERE t.workflow_id = ?
		ORDER BY t.step_number`, workflowID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []*api.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return tasks, nil
}

func (s *SQLiteStore) ClaimNextTask(ctx context.Context) (*api.Task, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+taskColumns+taskFromClause+`
		WHERE t.status = ?
		ORDER BY t.workflow_seq, t.step_number
		LIMIT 1`, string(api.TaskQueued))

	task, err := scanTask(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return task, nil
}

func (s *SQLiteStore) SaveResult(ctx context.Context, res *api.Result) error {
	// A task has at most one result; a re-run (which the engine never does
	// today) would replace it.
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO results (id, task_id, data, error)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (task_id) DO UPDATE SET id = excluded.id, data = excluded.data, error = excluded.error`,
		res.ID,
		res.TaskID,
		[]byte(res.Data),
		res.Error,
	)
	return err
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*api.Task, error) {
	var task api.Task
	var statusStr string
	var progress, consumerID sql.NullString
	var deps []byte
	var resID, resErr sql.NullString
	var resData []byte

	err := row.Scan(
		&task.ID, &task.ClientID, &task.WorkflowID, &task.WorkflowSeq,
		&statusStr, &task.Type, &task.StepNumber, &progress, &consumerID,
		&deps, &resID, &resData, &resErr,
	)
	if err != nil {
		return nil, err
	}

	task.Status = api.TaskStatus(statusStr)
	if progress.Valid {
		task.Progress = progress.String
	}
	if consumerID.Valid {
		task.ConsumerID = consumerID.String
	}

	ids, err := decodeIDList(deps)
	if err != nil {
		return nil, err
	}
	task.DependencyIDs = ids

	if resID.Valid {
		task.Result = &api.Result{
			ID:     resID.String,
			TaskID: task.ID,
			Data:   resData,
		}
		if resErr.Valid {
			task.Result.Error = resErr.String
		}
	}

	return &task, nil
}
