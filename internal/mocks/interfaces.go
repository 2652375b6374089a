package mocks

import (
	"shop-service/internal/infra/rabbitmq"
	"shop-service/internal/repository"
)

var (
	_ repository.OrderRepository   = (*MockOrderRepository)(nil)
	_ repository.ProductRepository = (*MockProductRepository)(nil)
	_ rabbitmq.PublisherInterface  = (*MockPublisher)(nil)
	_ repository.OrderRepository   = (*MemStore)(nil)
	_ repository.ProductRepository = (*MemStore)(nil)
)
