package apiv1

import (
	"context"

	"google.golang.org/grpc"
)

const packageName = "recruit.v1"

func fullMethod(service, method string) string {
	return "/" + packageName + "." + service + "/" + method
}

// unary はサーバー実装 S のメソッドを grpc.MethodDesc に変換します。
func unary[S any, Req any, Resp any](service, method string, call func(S, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	name := fullMethod(service, method)
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(S), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: name}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(S), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

func serviceDesc[S any](service string, methods ...grpc.MethodDesc) grpc.ServiceDesc {
	return grpc.ServiceDesc{
		ServiceName: packageName + "." + service,
		HandlerType: (*S)(nil),
		Methods:     methods,
		Streams:     []grpc.StreamDesc{},
		Metadata:    "recruit/v1/" + service,
	}
}

// Invoke は JSON コーデックで単項 RPC を呼び出します。
func Invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, service, method string, in any, opts ...grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, fullMethod(service, method), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// Empty は空のリクエストまたはレスポンスです。
type Empty struct{}
