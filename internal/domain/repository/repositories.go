package repository

// Repositories conjunto de repositorios atados a una misma transacción o snapshot.
type Repositories struct {
	Categories CategoryRepository
	Materials  MaterialRepository
	Products   ProductRepository
}
