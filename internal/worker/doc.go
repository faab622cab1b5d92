// Package worker implements the Redis Streams front-end of the router.
//
// The worker consumes routing requests from a stream via a consumer group,
// runs each request through the router one at a time (the shared model
// handle allows only one in-flight request), and publishes RouteResults to
// a result stream. Malformed requests are acknowledged and reported on a
// separate error stream instead of poisoning the group.
//
// Example usage:
//
//	cfg, _ := config.Load()
//	redisClient := redis.NewClient(&redis.Options{...})
//	r := router.New(manager, cloudClient, routerCfg, logger)
//
//	w := worker.NewWorker(cfg, redisClient, r, logger)
//	if err := w.Start(); err != nil {
//	    log.Fatal(err)
//	}
//	defer w.Stop()
//
// Health checks run on a separate HTTP server:
//
//	health := worker.NewHealthServer(cfg.HealthPort, redisClient, logger)
//	health.Start()
//	defer health.Stop()
package worker
