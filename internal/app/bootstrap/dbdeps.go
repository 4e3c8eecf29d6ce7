// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"github.com/dalemusser/mosqueconnect/internal/app/system/cache"
	"github.com/dalemusser/mosqueconnect/internal/app/system/workers"
	"go.mongodb.org/mongo-driver/mongo"
)

// DBDeps holds the backends shared by every hook after ConnectDB.
type DBDeps struct {
	MongoClient   *mongo.Client
	MongoDatabase *mongo.Database

	// Cache is Redis when redis_addr is set, otherwise in-process.
	Cache cache.Cache

	// workers is shared by pointer so Startup and Shutdown, which receive
	// DBDeps by value, see the same background jobs.
	workers *background
}

type background struct {
	sweep *workers.OfferSweep
}
