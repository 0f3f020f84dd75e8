// Command gridflow is a thin illustrative entry point: it builds a small
// in-memory table, runs it through a stream-backed pipeline with a parsed
// formula, then runs the same pipeline through a SQLite-backed Executor to
// show the two paths converge on the same rows.
package main

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/mattn/go-sqlite3"

	"github.com/gridflow/gridflow/column"
	"github.com/gridflow/gridflow/data"
	"github.com/gridflow/gridflow/formula"
	"github.com/gridflow/gridflow/job"
	"github.com/gridflow/gridflow/memsource"
	"github.com/gridflow/gridflow/raster"
	"github.com/gridflow/gridflow/sqlbackend"
	"github.com/gridflow/gridflow/value"
)

func main() {
	cols := []column.Column{column.New("Region"), column.New("Sales")}
	rows := []column.Row{
		{value.NewString("North"), value.NewInt(10)},
		{value.NewString("South"), value.NewInt(20)},
		{value.NewString("North"), value.NewInt(5)},
	}

	doubled, err := formula.Parse("=[@Sales]*2", formula.DefaultLocale())
	must(err)

	src := memsource.New(cols, rows)
	streamPipeline := data.FromStream(src, cols).Calculate([]raster.CalcTarget{
		{Column: column.New("DoubledSales"), Expr: doubled},
	})
	dump("stream pipeline", streamPipeline)

	exec, closeDB := sqliteExecutor(cols, rows)
	defer closeDB()
	sqlPipeline := data.FromSQL(sqlbackend.FromTable(sqlbackend.SQLite{}, "sales", cols), exec).
		Calculate([]raster.CalcTarget{
			{Column: column.New("DoubledSales"), Expr: doubled},
		})
	dump("sql pipeline", sqlPipeline)
}

func dump(label string, d data.Data) {
	done := make(chan job.Fallible[*raster.Raster], 1)
	d.ToRaster().Get(func(r job.Fallible[*raster.Raster]) { done <- r })
	result := <-done
	must(result.Err)

	fmt.Println(label)
	for _, row := range result.Value.Rows {
		fmt.Println(row)
	}
}

func must(err error) {
	if err != nil {
		log.Fatal(err)
	}
}

// sqliteExecutor opens an in-memory SQLite database, loads rows into a
// "sales" table, and returns an Executor that runs composed queries against
// it. This is the only place the engine opens a real database handle; the
// sqlbackend package itself only ever assembles query strings.
func sqliteExecutor(cols []column.Column, rows []column.Row) (data.Executor, func()) {
	db, err := sql.Open("sqlite3", ":memory:")
	must(err)

	must2(db.Exec(fmt.Sprintf("CREATE TABLE sales (%s TEXT, %s INTEGER)", cols[0].Name(), cols[1].Name())))
	for _, row := range rows {
		name, _ := row.At(0).AsString()
		sales, _ := row.At(1).AsInt()
		must2(db.Exec("INSERT INTO sales VALUES (?, ?)", name, sales))
	}

	return sqliteQuerier{db: db}, func() { db.Close() }
}

func must2(_ sql.Result, err error) {
	must(err)
}

type sqliteQuerier struct {
	db *sql.DB
}

func (q sqliteQuerier) Query(query string, cols []column.Column) (*raster.Raster, error) {
	rows, err := q.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []column.Row
	for rows.Next() {
		scanned := make([]interface{}, len(cols))
		ptrs := make([]interface{}, len(cols))
		for i := range scanned {
			ptrs[i] = &scanned[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		out = append(out, rowFromScan(scanned))
	}
	return raster.ReadOnlyCopy(cols, out), rows.Err()
}

func rowFromScan(scanned []interface{}) column.Row {
	row := make(column.Row, len(scanned))
	for i, v := range scanned {
		switch t := v.(type) {
		case int64:
			row[i] = value.NewInt(t)
		case float64:
			row[i] = value.NewDouble(t)
		case string:
			row[i] = value.NewString(t)
		case []byte:
			row[i] = value.NewString(string(t))
		case nil:
			row[i] = value.EmptyValue()
		default:
			row[i] = value.NewString(fmt.Sprintf("%v", t))
		}
	}
	return row
}
