package repository

// Schema holds the DDL applied at startup. Series metadata and evaluations
// live in ReplacingMergeTree tables: updates are re-inserts and reads use
// FINAL. Points, predictions, messages, and chunks are append-only.
var Schema = []string{
	`CREATE TABLE IF NOT EXISTS maifast.series (
        id String,
        company String,
        place String,
        frequency_days Nullable(Int32),
        last_date String,
        min_bound Nullable(Float64),
        max_bound Nullable(Float64),
        is_deleted UInt8,
        created_at DateTime,
        updated_at DateTime
    ) ENGINE=ReplacingMergeTree(updated_at) ORDER BY id`,

	`CREATE TABLE IF NOT EXISTS maifast.points (
        series_id String,
        date String,
        value Float64
    ) ENGINE=ReplacingMergeTree ORDER BY (series_id, date)`,

	`CREATE TABLE IF NOT EXISTS maifast.predictions (
        id String,
        series_id String,
        target_date String,
        predicted_value Float64,
        algorithm_version String,
        based_on_last_date String,
        created_at DateTime
    ) ENGINE=MergeTree ORDER BY (series_id, target_date, id)`,

	`CREATE TABLE IF NOT EXISTS maifast.evaluations (
        prediction_id String,
        actual_value Float64,
        error Float64,
        absolute_error Float64,
        percentage_error Float64,
        evaluated_at DateTime
    ) ENGINE=ReplacingMergeTree ORDER BY prediction_id`,

	`CREATE TABLE IF NOT EXISTS maifast.messages (
        id String,
        series_id String,
        role String,
        content String,
        created_at DateTime
    ) ENGINE=MergeTree ORDER BY (series_id, created_at, id)`,

	`CREATE TABLE IF NOT EXISTS maifast.context_chunks (
        id String,
        series_id String,
        content String,
        embedding Array(Float32),
        created_at DateTime
    ) ENGINE=MergeTree ORDER BY (series_id, created_at, id)`,
}
