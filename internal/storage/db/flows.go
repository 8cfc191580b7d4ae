package db

import (
	"context"
	"time"
)

const getFlows = `
select id, name, steps, create_time, update_time
from flows
where name > ?
order by name
limit ?
`

// GetFlowsParams are the parameters of [Queries.GetFlows].
type GetFlowsParams struct {
	AfterName string
	Limit     int64
}

// GetFlows lists flows ordered by name, starting after AfterName.
func (q *Queries) GetFlows(ctx context.Context, arg GetFlowsParams) ([]Flow, error) {
	rows, err := q.db.QueryContext(ctx, getFlows, arg.AfterName, arg.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Flow
	for rows.Next() {
		var i Flow
		if err := rows.Scan(
			&i.ID,
			&i.Name,
			&i.Steps,
			&i.CreateTime,
			&i.UpdateTime,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const getFlow = `
select id, name, steps, create_time, update_time
from flows
where name = ?
`

// GetFlow returns the flow with the given name.
func (q *Queries) GetFlow(ctx context.Context, name string) (Flow, error) {
	row := q.db.QueryRowContext(ctx, getFlow, name)
	var i Flow
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Steps,
		&i.CreateTime,
		&i.UpdateTime,
	)
	return i, err
}

const upsertFlow = `
insert into flows (id, name, steps, create_time, update_time)
values (?, ?, ?, ?, ?)
on conflict (name) do update
    set steps       = excluded.steps,
        update_time = excluded.update_time
returning id, name, steps, create_time, update_time
`

// UpsertFlowParams are the parameters of [Queries.UpsertFlow].
type UpsertFlowParams struct {
	ID         uint64
	Name       string
	Steps      string
	CreateTime time.Time
	UpdateTime time.Time
}

// UpsertFlow inserts a flow, or replaces the steps of the flow with the same
// name. The stored row is returned.
func (q *Queries) UpsertFlow(ctx context.Context, arg UpsertFlowParams) (Flow, error) {
	row := q.db.QueryRowContext(ctx, upsertFlow,
		arg.ID,
		arg.Name,
		arg.Steps,
		arg.CreateTime,
		arg.UpdateTime,
	)
	var i Flow
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Steps,
		&i.CreateTime,
		&i.UpdateTime,
	)
	return i, err
}

const deleteFlow = `
delete from flows
where name = ?
returning id
`

// DeleteFlow removes the named flow and returns its ID.
func (q *Queries) DeleteFlow(ctx context.Context, name string) (uint64, error) {
	row := q.db.QueryRowContext(ctx, deleteFlow, name)
	var id uint64
	err := row.Scan(&id)
	return id, err
}
