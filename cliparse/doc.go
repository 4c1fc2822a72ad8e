// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles configuration parsing and logger setup.

# Configuration

ParseFlags returns a Config with every setting resolved:

	if err := cliparse.LoadDotEnv(".env"); err != nil {
		log.Fatal(err)
	}
	cfg, err := cliparse.ParseFlags(os.Args[1:])

Each setting is taken from its CLI flag, then its environment variable, then
its default. A .env file only fills variables not already set.

# Settings

	Flag                  Env                   Default
	-p                    PORT                  3318
	-d                    DATABASE_URL          (required)
	-t                    DATABASE_TYPE         postgres
	--log-level           LOG_LEVEL             info
	--admin-key           ADMIN_KEY             (required)
	--token-salt          USER_TOKEN_SALT       (required)
	--zone                HOME_ZONE             Asia/Tokyo
	--window-start        PUBLISH_WINDOW_START  10:00
	--window-end          PUBLISH_WINDOW_END    21:00
	--select-schedule     SELECT_SCHEDULE       0 0 * * *
	--check-schedule      CHECK_SCHEDULE        every 10 minutes
	--job-timeout         JOB_TIMEOUT           2m
	--max-answer-length   MAX_ANSWER_LENGTH     200
	--on-time-window      ON_TIME_WINDOW        30m
	--push-url            PUSH_GATEWAY_URL      Expo push endpoint
	--push-batch-size     PUSH_BATCH_SIZE       100 (1-100)
	--push-concurrency    PUSH_CONCURRENCY      4
	--push-timeout        PUSH_TIMEOUT          10s
	--push-attempts       PUSH_ATTEMPTS         2
	--store-timeout       STORE_TIMEOUT         5s
	--store-attempts      STORE_ATTEMPTS        3

Cron schedules are evaluated in the home zone.

# Logging

InitLogger installs the default slog logger: a text handler when stdout is a
terminal, JSON otherwise.
*/
package cliparse
