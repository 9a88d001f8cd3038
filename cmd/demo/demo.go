// Command demo fills the configured store with two weeks of sample days.
package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"tableflip.dev/daylog/pkg/activity"
	"tableflip.dev/daylog/pkg/config"
	"tableflip.dev/daylog/pkg/insight"
	"tableflip.dev/daylog/pkg/server"
	"tableflip.dev/daylog/pkg/store"
)

// Demo returns n days ending today with a rotating mix of hours.
func Demo(today time.Time, n int) []activity.Record {
	pattern := [][4]float64{
		{8, 2, 7, 1},
		{9.5, 1, 6, 0},
		{7, 3, 8, 1.5},
		{10, 0.5, 5.5, 0},
		{6, 4, 8.5, 2},
		{0, 6, 9, 3},
		{2, 5, 9.5, 1},
	}
	out := make([]activity.Record, 0, n)
	for i := n - 1; i >= 0; i-- {
		p := pattern[i%len(pattern)]
		out = append(out, activity.Record{
			Date:     activity.DateOf(today.AddDate(0, 0, -i)),
			Work:     p[0],
			Leisure:  p[1],
			Sleep:    p[2],
			Exercise: p[3],
		})
	}
	return out
}

func main() {
	ctx := context.Background()
	cfg, err := config.Load(nil)
	if err != nil {
		log.Fatal(err)
	}
	st, err := store.Open(ctx, cfg.Store)
	if err != nil {
		log.Fatal(err)
	}
	defer st.Close()

	svc := server.NewService(st, insight.NewMock())
	for _, r := range Demo(time.Now(), 14) {
		created, err := svc.Create(ctx, r)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println(created)
	}
}
