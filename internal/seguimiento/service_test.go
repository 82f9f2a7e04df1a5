package seguimiento

import (
	"errors"
	"log/slog"
	"testing"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	"github.com/sgcalidad/plan-mejora/internal"
	"github.com/sgcalidad/plan-mejora/internal/auth"
	"github.com/sgcalidad/plan-mejora/internal/plan"
)

func TestSeguimiento(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Seguimiento Module Suite")
}

// Mock Repository for testing
type mockSeguimientoRepository struct {
	rows          map[int64]*Seguimiento
	nextID        int64
	returnError   bool
	errorToReturn error
}

func newMockSeguimientoRepository() *mockSeguimientoRepository {
	return &mockSeguimientoRepository{rows: map[int64]*Seguimiento{}, nextID: 1}
}

func (m *mockSeguimientoRepository) Create(s *Seguimiento) error {
	if m.returnError {
		return m.errorToReturn
	}
	s.ID = m.nextID
	m.nextID++
	m.rows[s.ID] = s
	return nil
}

func (m *mockSeguimientoRepository) GetByID(id int64) (*Seguimiento, error) {
	if m.returnError {
		return nil, m.errorToReturn
	}
	if s, ok := m.rows[id]; ok {
		return s, nil
	}
	return nil, errors.New("not found")
}

func (m *mockSeguimientoRepository) ListByPlan(planID int64) ([]*Seguimiento, error) {
	if m.returnError {
		return nil, m.errorToReturn
	}
	var out []*Seguimiento
	for _, s := range m.rows {
		if s.PlanID == planID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *mockSeguimientoRepository) Update(s *Seguimiento) error {
	if m.returnError {
		return m.errorToReturn
	}
	m.rows[s.ID] = s
	return nil
}

func (m *mockSeguimientoRepository) Delete(id int64) error {
	if m.returnError {
		return m.errorToReturn
	}
	delete(m.rows, id)
	return nil
}

// Mock PlanResolver for testing
type mockPlanResolver struct {
	plans map[int64]*plan.Plan
}

func (m *mockPlanResolver) GetByID(id int64) (*plan.Plan, error) {
	if p, ok := m.plans[id]; ok {
		return p, nil
	}
	return nil, errors.New("not found")
}

var _ = ginkgo.Describe("SeguimientoService", func() {
	var (
		service   *Service
		mockRepo  *mockSeguimientoRepository
		resolver  *mockPlanResolver
		admin     *auth.Identity
		entidad   *auth.Identity
		auditor   *auth.Identity
		ciudadano *auth.Identity
	)

	ginkgo.BeforeEach(func() {
		mockRepo = newMockSeguimientoRepository()
		resolver = &mockPlanResolver{plans: map[int64]*plan.Plan{
			10: {ID: 10, NombreEntidad: "Secretaría de Salud", CreatedBy: 2, Estado: plan.EstadoAprobado},
			11: {ID: 11, NombreEntidad: "Contraloría", CreatedBy: 1, Estado: plan.EstadoPendiente},
		}}
		service = NewService(mockRepo, resolver, auth.NewPolicy(false), slog.Default())
		admin = &auth.Identity{UserID: 1, Role: auth.RoleAdmin}
		entidad = &auth.Identity{UserID: 2, Role: auth.RoleEntidad}
		auditor = &auth.Identity{UserID: 3, Role: auth.RoleAuditor}
		ciudadano = &auth.Identity{UserID: 4, Role: auth.RoleCiudadano}
	})

	ginkgo.Describe("Create", func() {
		ginkgo.It("should stamp the acting user as updated_by", func() {
			texto := "avance del 40%"
			s, err := service.Create(entidad, 10, WriteSeguimientoDTO{Seguimiento: &texto})

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(s.PlanID).To(gomega.Equal(int64(10)))
			gomega.Expect(s.UpdatedBy).To(gomega.Equal(int64(2)))
		})

		ginkgo.It("should keep writing after the parent plan is approved", func() {
			texto := "cierre de actividades"
			_, err := service.Create(auditor, 10, WriteSeguimientoDTO{Seguimiento: &texto})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
		})

		ginkgo.It("should silently drop an entidad quality note", func() {
			nota := "todo perfecto"
			texto := "avance"
			s, err := service.Create(entidad, 10, WriteSeguimientoDTO{
				ObservacionCalidad: &nota,
				Seguimiento:        &texto,
			})

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(s.ObservacionCalidad).To(gomega.BeNil())
			gomega.Expect(*s.Seguimiento).To(gomega.Equal("avance"))
		})

		ginkgo.It("should keep an auditor quality note", func() {
			nota := "evidencia incompleta"
			s, err := service.Create(auditor, 10, WriteSeguimientoDTO{ObservacionCalidad: &nota})

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(*s.ObservacionCalidad).To(gomega.Equal(nota))
		})

		ginkgo.It("should deny ciudadano", func() {
			_, err := service.Create(ciudadano, 10, WriteSeguimientoDTO{})
			gomega.Expect(err).To(gomega.Equal(internal.ErrForbidden))
		})

		ginkgo.It("should report a missing parent plan", func() {
			_, err := service.Create(admin, 404, WriteSeguimientoDTO{})
			gomega.Expect(err).To(gomega.Equal(internal.ErrPlanNotFound))
		})
	})

	ginkgo.Describe("Update", func() {
		ginkgo.It("should overwrite updated_by with the last writer", func() {
			texto := "registro inicial"
			s, err := service.Create(entidad, 10, WriteSeguimientoDTO{Seguimiento: &texto})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			nuevo := "registro corregido"
			updated, err := service.Update(admin, s.ID, WriteSeguimientoDTO{Seguimiento: &nuevo})

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(updated.UpdatedBy).To(gomega.Equal(int64(1)))
			gomega.Expect(*updated.Seguimiento).To(gomega.Equal(nuevo))
		})

		ginkgo.It("should leave untouched fields as-is on a partial payload", func() {
			texto := "avance"
			enlace := "https://example.org/evidencia"
			s, err := service.Create(entidad, 10, WriteSeguimientoDTO{Seguimiento: &texto, EnlaceEntidad: &enlace})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			nuevo := "avance ajustado"
			updated, err := service.Update(entidad, s.ID, WriteSeguimientoDTO{Seguimiento: &nuevo})

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(*updated.EnlaceEntidad).To(gomega.Equal(enlace))
		})

		ginkgo.It("should report a missing seguimiento", func() {
			_, err := service.Update(admin, 404, WriteSeguimientoDTO{})
			gomega.Expect(err).To(gomega.Equal(internal.ErrSeguimientoNotFound))
		})
	})

	ginkgo.Describe("ListByPlan", func() {
		ginkgo.It("should fence entidad to its own plans' follow-ups", func() {
			_, err := service.ListByPlan(entidad, 11)
			gomega.Expect(err).To(gomega.Equal(internal.ErrForbidden))
		})

		ginkgo.It("should let auditor read any plan's follow-ups", func() {
			texto := "x"
			_, err := service.Create(admin, 11, WriteSeguimientoDTO{Seguimiento: &texto})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			rows, err := service.ListByPlan(auditor, 11)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(rows).To(gomega.HaveLen(1))
		})
	})

	ginkgo.Describe("Delete", func() {
		ginkgo.It("should remove the row", func() {
			texto := "x"
			s, err := service.Create(entidad, 10, WriteSeguimientoDTO{Seguimiento: &texto})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			gomega.Expect(service.Delete(entidad, s.ID)).To(gomega.Succeed())

			_, err = mockRepo.GetByID(s.ID)
			gomega.Expect(err).To(gomega.HaveOccurred())
		})

		ginkgo.It("should deny ciudadano", func() {
			err := service.Delete(ciudadano, 1)
			gomega.Expect(err).To(gomega.Equal(internal.ErrForbidden))
		})
	})
})
